// Package sender streams records to a receiver: the client half of the
// telemetry link.
package sender

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mithrel/yprlog/internal/transport"
	"github.com/mithrel/yprlog/pkg/api"
)

type Config struct {
	Addr string
	// Dialer defaults to TCP.
	Dialer transport.Dialer
	// Interval paces records; zero sends back to back.
	Interval time.Duration
	Logger   *slog.Logger
}

// Result describes what was written.
type Result struct {
	Records uint64
	Digest  string
}

// Send dials cfg.Addr, writes every record from src and closes the stream.
// When ctx ends first, the records already written are reported alongside
// ctx.Err().
func Send(ctx context.Context, cfg Config, src Source) (Result, error) {
	d := cfg.Dialer
	if d == nil {
		d = transport.TCP{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	stream, err := d.Dial(ctx, cfg.Addr)
	if err != nil {
		return Result{}, fmt.Errorf("dial %s: %w", cfg.Addr, err)
	}
	logger.Info("connected", "addr", cfg.Addr)

	digest := api.NewDigest()
	err = pump(ctx, stream, src, cfg.Interval, digest)
	if cerr := stream.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close: %w", cerr)
	}
	res := Result{Records: digest.Count(), Digest: digest.Sum()}
	logger.Info("sent", "records", res.Records, "digest", res.Digest, "err", err)
	return res, err
}

func pump(ctx context.Context, w io.Writer, src Source, interval time.Duration, digest *api.Digest) error {
	bw := bufio.NewWriter(w)
	var buf [api.RecordSize]byte
	var timer *time.Timer
	if interval > 0 {
		timer = time.NewTimer(interval)
		defer timer.Stop()
	}
	for {
		if err := ctx.Err(); err != nil {
			return errors.Join(err, bw.Flush())
		}
		rec, ok := src.Next()
		if !ok {
			return bw.Flush()
		}
		enc, _ := rec.AppendBinary(buf[:0])
		if _, err := bw.Write(enc); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		digest.Add(buf)
		if timer == nil {
			continue
		}
		// Paced records go out one at a time.
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		timer.Reset(interval)
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}
}
