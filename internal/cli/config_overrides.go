package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags onto config keys. A flag only overrides
// the config when the user set it.
var flagKeys = map[string]string{
	"host":      "listen.host",
	"port":      "listen.port",
	"transport": "transport",
	"cert":      "quic.cert_file",
	"key":       "quic.key_file",
	"display":   "display.mode",
	"addr":      "send.addr",
	"interval":  "send.interval",
	"count":     "send.count",
	"log-level": "log.level",
	"log-file":  "log.file",
}

func applyConfigFlagOverrides(cmd *cobra.Command, v *viper.Viper) {
	for flagName, key := range flagKeys {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil || !flag.Changed {
			continue
		}
		setFromFlag(cmd, v, flagName, key)
	}
}

func setFromFlag(cmd *cobra.Command, v *viper.Viper, flagName, key string) {
	switch cmd.Flags().Lookup(flagName).Value.Type() {
	case "int":
		if val, err := cmd.Flags().GetInt(flagName); err == nil {
			v.Set(key, val)
		}
	case "duration":
		if val, err := cmd.Flags().GetDuration(flagName); err == nil {
			v.Set(key, val)
		}
	default:
		if val, err := cmd.Flags().GetString(flagName); err == nil {
			v.Set(key, val)
		}
	}
}
