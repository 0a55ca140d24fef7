package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/yprlog/internal/sender"
	"github.com/mithrel/yprlog/internal/transport"
	"github.com/mithrel/yprlog/pkg/api"
)

func newSendCmd() *cobra.Command {
	var records []string
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Stream records to a listening yprlog",
		Long: `Stream yaw/pitch/roll records to a receiver.

With --record the given records are sent once, in order. Otherwise a
synthetic attitude sweep is sent every --interval, --count times (0 means
until interrupted).`,
		Example: `  yprlog send --record 1,-2.5,0 --record 90,0,-90
  yprlog send --addr 10.0.0.7:7000 --interval 20ms --count 500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var src sender.Source
			interval := app.Cfg.GetDuration("send.interval")
			if len(records) > 0 {
				recs := make([]api.Record, 0, len(records))
				for _, s := range records {
					r, err := sender.ParseRecord(s)
					if err != nil {
						return err
					}
					recs = append(recs, r)
				}
				src = sender.Records(recs...)
				if !cmd.Flags().Changed("interval") {
					interval = 0
				}
			} else {
				src = &sender.Sweep{Count: app.Cfg.GetInt("send.count")}
			}

			d, err := transport.NewDialer(app.Cfg.GetString("transport"))
			if err != nil {
				return err
			}
			res, err := sender.Send(ctx, sender.Config{
				Addr:     app.Cfg.GetString("send.addr"),
				Dialer:   d,
				Interval: interval,
				Logger:   app.Log,
			}, src)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sent %d records (blake3 %s)\n", res.Records, res.Digest)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&records, "record", "r", nil, "record as yaw,pitch,roll (repeatable)")
	cmd.Flags().String("addr", "127.0.0.1:7000", "receiver address host:port")
	cmd.Flags().String("transport", transport.NameTCP, "transport: tcp or quic")
	cmd.Flags().Duration("interval", 50*time.Millisecond, "delay between records")
	cmd.Flags().Int("count", 0, "sweep records to send (0 = until interrupted)")
	return cmd
}
