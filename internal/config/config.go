package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// Flags bound by the caller sit above all three. A missing config file is
// not an error; a malformed one is.
func Load(ctx context.Context, v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "yprlog"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "yprlog"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	// Environment variables: YPRLOG_LISTEN_PORT, YPRLOG_LOG_LEVEL, ...
	v.SetEnvPrefix("yprlog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.Set("transport", strings.ToLower(strings.TrimSpace(v.GetString("transport"))))
	v.Set("display.mode", strings.ToLower(strings.TrimSpace(v.GetString("display.mode"))))
	return nil
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "yprlog", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns every configuration key with its default and
// meaning. It drives defaults, validation and `config generate`.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "transport", Default: "tcp", Comment: "Record transport: tcp or quic"},

		{Key: "listen.host", Default: "", Comment: "Bind host; empty listens on all interfaces"},
		{Key: "listen.port", Default: 7000, Comment: "Bind port for the single telemetry client"},

		{Key: "quic.cert_file", Default: "", Comment: "PEM certificate for quic; empty uses a self-signed one"},
		{Key: "quic.key_file", Default: "", Comment: "PEM private key matching quic.cert_file"},

		{Key: "display.mode", Default: "auto", Comment: "auto (tui on a terminal, else plain), tui or plain"},
		{Key: "display.scrollback", Default: 1000, Comment: "Lines kept by the tui log view (0 keeps all)"},

		{Key: "log.level", Default: "info", Comment: "debug, info, warn or error"},
		{Key: "log.format", Default: "text", Comment: "text or json"},
		{Key: "log.file", Default: "", Comment: "Rotating log file; empty logs to stderr (silenced under the tui)"},
		{Key: "log.max_size_mb", Default: 10, Comment: "Rotate log.file after this many megabytes"},
		{Key: "log.max_backups", Default: 3, Comment: "Rotated log files to keep"},
		{Key: "log.max_age_days", Default: 28, Comment: "Days to keep rotated log files"},

		{Key: "send.addr", Default: "127.0.0.1:7000", Comment: "Receiver address used by `yprlog send`"},
		{Key: "send.interval", Default: "50ms", Comment: "Delay between generated sweep records"},
		{Key: "send.count", Default: 0, Comment: "Sweep records to send; 0 sends until interrupted"},
	}
}
