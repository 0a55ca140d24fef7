package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mithrel/yprlog/internal/display"
	"github.com/mithrel/yprlog/internal/present/tui"
	"github.com/mithrel/yprlog/internal/receiver"
	"github.com/mithrel/yprlog/internal/transport"
	"github.com/mithrel/yprlog/internal/wire"
)

func newListenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "listen",
		Short:       "Wait for one telemetry client and display its records",
		Annotations: map[string]string{fullscreenAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			l, err := transport.NewListener(app.Cfg.GetString("transport"), transport.TLSOptions{
				CertFile: app.Cfg.GetString("quic.cert_file"),
				KeyFile:  app.Cfg.GetString("quic.key_file"),
			})
			if err != nil {
				return err
			}
			rcfg := receiver.Config{
				Host:      app.Cfg.GetString("listen.host"),
				Port:      app.Cfg.GetInt("listen.port"),
				Transport: l,
				Logger:    app.Log,
			}
			if app.Display == wire.DisplayTUI {
				return runTUI(ctx, cmd.OutOrStdout(), app, rcfg)
			}
			return runPlain(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), rcfg)
		},
	}
	cmd.Flags().String("host", "", "bind host (default all interfaces)")
	cmd.Flags().Int("port", receiver.DefaultPort, "bind port")
	cmd.Flags().String("transport", transport.NameTCP, "transport: tcp or quic")
	cmd.Flags().String("cert", "", "PEM certificate for quic")
	cmd.Flags().String("key", "", "PEM key for quic")
	cmd.Flags().String("display", "auto", "display: auto, tui or plain")
	return cmd
}

// runPlain writes the log to out and exits when the session ends.
func runPlain(ctx context.Context, out, errOut io.Writer, rcfg receiver.Config) error {
	q := display.NewQueue(display.NewWriter(out).AppendLine)
	defer q.Close()

	r, err := receiver.Start(ctx, rcfg, q)
	if err != nil {
		return err
	}
	res := r.Wait()
	q.Close()
	_, _ = fmt.Fprintln(errOut, res.String())
	return res.Err
}

// runTUI keeps the log on screen after the session ends until the user
// quits; the outcome goes to the status bar.
func runTUI(ctx context.Context, out io.Writer, app *wire.App, rcfg receiver.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tui.NewProgram(ctx, tui.Options{
		Title:      "yprlog",
		Scrollback: app.Cfg.GetInt("display.scrollback"),
		Status:     "starting",
	})
	q := display.NewQueue(prog.AppendLine)
	defer q.Close()

	r, err := receiver.Start(ctx, rcfg, q)
	if err != nil {
		return err
	}
	go func() {
		prog.SetStatus("listening on " + r.Addr().String())
		res := r.Wait()
		// Drain the remaining lines first so the status lands after them.
		q.Close()
		prog.SetStatus(res.String())
	}()

	runErr := prog.Run()
	cancel()
	res := r.Wait()
	_, _ = fmt.Fprintln(out, res.String())
	if runErr != nil {
		return runErr
	}
	return res.Err
}
