package config

import (
	"fmt"
	"strings"
)

// RenderDefaultTOML renders a commented TOML config from GetConfigOptions.
func RenderDefaultTOML() string {
	var b strings.Builder
	b.WriteString("# yprlog configuration (TOML)\n\n")

	opts := GetConfigOptions()
	sections := make(map[string][]ConfigOption)
	var order []string
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			writeTOMLOption(&b, o.Key, o.Default, o.Comment)
			continue
		}
		if _, seen := sections[section]; !seen {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	for _, section := range order {
		b.WriteString("[" + section + "]\n")
		for _, o := range sections[section] {
			writeTOMLOption(&b, o.Key, o.Default, o.Comment)
		}
	}
	return b.String()
}

// RenderEffective lists resolved values, one dotted key per line.
func RenderEffective(get func(string) any) string {
	var b strings.Builder
	for _, o := range GetConfigOptions() {
		fmt.Fprintf(&b, "%s = %v\n", o.Key, get(o.Key))
	}
	return b.String()
}

func writeTOMLOption(b *strings.Builder, key string, value any, comment string) {
	if comment != "" {
		b.WriteString("# " + comment + "\n")
	}
	switch v := value.(type) {
	case string:
		fmt.Fprintf(b, "%s = %q\n\n", key, v)
	default:
		fmt.Fprintf(b, "%s = %v\n\n", key, v)
	}
}
