package config

import (
	"errors"
	"fmt"
	"net"
	"slices"

	"github.com/spf13/viper"

	"github.com/mithrel/yprlog/internal/logging"
	"github.com/mithrel/yprlog/internal/transport"
)

var displayModes = []string{"auto", "tui", "plain"}

// CheckConfigValidity reports every problem at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error

	if name := v.GetString("transport"); !transport.Valid(name) {
		errs = append(errs, fmt.Errorf("transport must be one of %v, got %q", transport.Names(), name))
	}
	if p := v.GetInt("listen.port"); p < 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("listen.port must be between 0 and 65535, got %d", p))
	}
	cert, key := v.GetString("quic.cert_file"), v.GetString("quic.key_file")
	if (cert == "") != (key == "") {
		errs = append(errs, errors.New("quic.cert_file and quic.key_file must be set together"))
	}
	if m := v.GetString("display.mode"); !slices.Contains(displayModes, m) {
		errs = append(errs, fmt.Errorf("display.mode must be one of %v, got %q", displayModes, m))
	}
	if v.GetInt("display.scrollback") < 0 {
		errs = append(errs, errors.New("display.scrollback must not be negative"))
	}
	if _, err := logging.ParseLevel(v.GetString("log.level")); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if f := v.GetString("log.format"); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", f))
	}
	if v.GetInt("log.max_size_mb") <= 0 {
		errs = append(errs, errors.New("log.max_size_mb must be greater than 0"))
	}
	if _, _, err := net.SplitHostPort(v.GetString("send.addr")); err != nil {
		errs = append(errs, fmt.Errorf("send.addr must be host:port: %w", err))
	}
	if v.GetDuration("send.interval") < 0 {
		errs = append(errs, errors.New("send.interval must not be negative"))
	}
	if v.GetInt("send.count") < 0 {
		errs = append(errs, errors.New("send.count must not be negative"))
	}
	return errors.Join(errs...)
}
