// Package receiver accepts exactly one telemetry client, decodes its
// fixed-width yaw/pitch/roll records and pushes each one, with the
// lifecycle status lines, to a display.Sink.
package receiver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/mithrel/yprlog/internal/display"
	"github.com/mithrel/yprlog/internal/present/format"
	"github.com/mithrel/yprlog/internal/transport"
	"github.com/mithrel/yprlog/pkg/api"
)

// DefaultPort is the reference listening port.
const DefaultPort = 7000

type Config struct {
	Host string
	Port int
	// Transport defaults to TCP.
	Transport transport.Listener
	Logger    *slog.Logger
	// Now stamps the started line; defaults to time.Now.
	Now func() time.Time
}

// Receiver owns one listening endpoint and at most one session. It never
// accepts a second client.
type Receiver struct {
	acc    transport.Acceptor
	sink   display.Sink
	log    *slog.Logger
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	outcome Outcome
}

// Start binds cfg.Host:cfg.Port, emits the started line and returns; the
// accept/read loop runs on its own goroutine until the stream ends, fails
// or ctx is cancelled. Bind failures are returned as a *Fault matching
// ErrBind and emit nothing.
func Start(ctx context.Context, cfg Config, sink display.Sink) (*Receiver, error) {
	if sink == nil {
		return nil, errors.New("receiver: nil sink")
	}
	l := cfg.Transport
	if l == nil {
		l = transport.TCP{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	acc, err := l.Listen(ctx, addr)
	if err != nil {
		logger.Error("bind failed", "addr", addr, "err", err)
		return nil, &Fault{Op: "listen " + addr, Kind: ErrBind, Err: err}
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &Receiver{
		acc:    acc,
		sink:   sink,
		log:    logger.With("addr", acc.Addr().String()),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.log.Info("listening")
	sink.AppendLine(format.StartedLine(now()))
	go r.run(ctx)
	return r, nil
}

// Addr is the bound address; useful when Port was 0.
func (r *Receiver) Addr() net.Addr { return r.acc.Addr() }

// Done is closed once the receiver has released its listener and session.
func (r *Receiver) Done() <-chan struct{} { return r.done }

// Wait blocks until the receiver stops and returns how it ended.
func (r *Receiver) Wait() Outcome {
	<-r.done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome
}

// Stop cancels the receiver and waits for it. Calling Stop after the
// receiver ended on its own returns the original outcome.
func (r *Receiver) Stop() Outcome {
	r.cancel()
	return r.Wait()
}

func (r *Receiver) run(ctx context.Context) {
	defer close(r.done)
	defer r.cancel()
	defer r.acc.Close()

	out := r.serve(ctx)
	if out.Err != nil {
		r.log.Error("receiver stopped", "reason", out.Reason.String(), "remote", out.Remote, "records", out.Records, "err", out.Err)
	} else {
		r.log.Info("receiver stopped", "reason", out.Reason.String(), "remote", out.Remote, "records", out.Records, "digest", out.Digest)
	}
	r.mu.Lock()
	r.outcome = out
	r.mu.Unlock()
}

func (r *Receiver) serve(ctx context.Context) Outcome {
	stream, err := r.acc.Accept(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{Reason: ReasonCanceled, Digest: api.NewDigest().Sum()}
		}
		return Outcome{
			Reason: ReasonAccept,
			Digest: api.NewDigest().Sum(),
			Err:    &Fault{Op: "accept", Kind: ErrAccept, Err: err},
		}
	}
	s := newSession(stream, r.log)
	defer s.close()
	// Closing the stream is what unblocks a pending read on cancellation.
	stop := context.AfterFunc(ctx, func() { _ = stream.Close() })
	defer stop()

	r.sink.AppendLine(format.ConnectedLine(s.remote))
	err = s.readLoop(r.sink)

	out := Outcome{Remote: s.remote, Records: s.digest.Count(), Digest: s.digest.Sum()}
	switch {
	case ctx.Err() != nil:
		out.Reason = ReasonCanceled
	case errors.Is(err, io.EOF):
		out.Reason = ReasonStreamEnd
	case errors.Is(err, io.ErrUnexpectedEOF):
		out.Reason = ReasonDecode
		out.Err = &Fault{Op: "read " + s.remote, Kind: ErrDecode, Err: err}
	default:
		out.Reason = ReasonIO
		out.Err = &Fault{Op: "read " + s.remote, Kind: ErrIO, Err: err}
	}
	return out
}

// session is the single accepted connection.
type session struct {
	id     string
	stream transport.Stream
	remote string
	digest *api.Digest
	log    *slog.Logger
	once   sync.Once
}

func newSession(stream transport.Stream, logger *slog.Logger) *session {
	s := &session{
		id:     api.NewSessionID(),
		stream: stream,
		remote: transport.Host(stream.RemoteAddr()),
		digest: api.NewDigest(),
	}
	s.log = logger.With("session", s.id, "remote", s.remote)
	s.log.Info("client connected")
	return s
}

// readLoop decodes records until the stream stops. It returns io.EOF for a
// clean close on a record boundary and io.ErrUnexpectedEOF when the stream
// ends inside a record; no partial record is ever emitted.
func (s *session) readLoop(sink display.Sink) error {
	var buf [api.RecordSize]byte
	for {
		if _, err := io.ReadFull(s.stream, buf[:]); err != nil {
			return err
		}
		rec := api.DecodeRecord(buf)
		s.digest.Add(buf)
		sink.AppendLine(format.RecordLine(rec))
	}
}

func (s *session) close() {
	s.once.Do(func() {
		if err := s.stream.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.log.Debug("close session", "err", fmt.Errorf("close: %w", err))
		}
	})
}
