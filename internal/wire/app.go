package wire

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/mithrel/yprlog/internal/logging"
)

const (
	DisplayTUI   = "tui"
	DisplayPlain = "plain"
)

// App aggregates the resolved configuration and shared services.
type App struct {
	Cfg *viper.Viper
	Log *slog.Logger
	// Display is the resolved display mode, never "auto".
	Display string

	logCloser io.Closer
}

type Options struct {
	// Fullscreen marks commands that take over the terminal; their logs are
	// silenced unless log.file is set.
	Fullscreen bool
	// IsTTY overrides terminal detection on stdout.
	IsTTY *bool
}

// BuildApp wires dependencies with the provided, already loaded config.
func BuildApp(ctx context.Context, v *viper.Viper, opts Options) (*App, error) {
	tty := term.IsTerminal(int(os.Stdout.Fd()))
	if opts.IsTTY != nil {
		tty = *opts.IsTTY
	}
	mode := ResolveDisplay(v.GetString("display.mode"), tty)

	logger, closer, err := logging.New(logging.Options{
		Level:      v.GetString("log.level"),
		Format:     v.GetString("log.format"),
		File:       v.GetString("log.file"),
		MaxSizeMB:  v.GetInt("log.max_size_mb"),
		MaxBackups: v.GetInt("log.max_backups"),
		MaxAgeDays: v.GetInt("log.max_age_days"),
		Quiet:      opts.Fullscreen && mode == DisplayTUI,
	})
	if err != nil {
		return nil, err
	}
	return &App{Cfg: v, Log: logger, Display: mode, logCloser: closer}, nil
}

// ResolveDisplay turns "auto" into tui or plain.
func ResolveDisplay(mode string, tty bool) string {
	switch mode {
	case DisplayTUI, DisplayPlain:
		return mode
	}
	if tty {
		return DisplayTUI
	}
	return DisplayPlain
}

func (a *App) Close() error {
	if a.logCloser == nil {
		return nil
	}
	return a.logCloser.Close()
}
