package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"time"

	quic "github.com/quic-go/quic-go"
)

// ErrMissingTLS is returned when a QUIC listener has no certificate.
var ErrMissingTLS = errors.New("missing TLS configuration")

// closeGrace bounds how long a dialled stream waits for the peer to drain
// after sending FIN.
const closeGrace = 5 * time.Second

// QUIC carries the record stream on the first bidirectional stream of a
// QUIC connection. TLS is required on the server; the client skips
// verification unless TLS is provided.
type QUIC struct {
	TLS *tls.Config
}

func quicConfig() *quic.Config {
	return &quic.Config{KeepAlivePeriod: 10 * time.Second}
}

func (q QUIC) Listen(ctx context.Context, addr string) (Acceptor, error) {
	if q.TLS == nil {
		return nil, ErrMissingTLS
	}
	l, err := quic.ListenAddr(addr, withALPN(q.TLS), quicConfig())
	if err != nil {
		return nil, err
	}
	return &quicAcceptor{l: l}, nil
}

func (q QUIC) Dial(ctx context.Context, addr string) (Stream, error) {
	conf := q.TLS
	if conf == nil {
		// Self-signed servers are the common case; pin or supply roots for anything else.
		conf = &tls.Config{InsecureSkipVerify: true}
	}
	conn, err := quic.DialAddr(ctx, addr, withALPN(conf), quicConfig())
	if err != nil {
		return nil, err
	}
	s, err := conn.OpenStreamSync(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "open stream")
		return nil, err
	}
	return &quicStream{Stream: s, conn: conn, dialled: true}, nil
}

type quicAcceptor struct{ l *quic.Listener }

func (a *quicAcceptor) Accept(ctx context.Context) (Stream, error) {
	conn, err := a.l.Accept(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	s, err := conn.AcceptStream(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "no stream")
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return &quicStream{Stream: s, conn: conn}, nil
}

func (a *quicAcceptor) Addr() net.Addr { return a.l.Addr() }
func (a *quicAcceptor) Close() error   { return a.l.Close() }

type quicStream struct {
	quic.Stream
	conn    quic.Connection
	dialled bool
}

func (s *quicStream) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }

// Close tears down the whole connection. A dialling side first sends FIN
// and waits (bounded) for the receiver to hang up so queued records are
// not discarded by an early CONNECTION_CLOSE.
func (s *quicStream) Close() error {
	err := s.Stream.Close()
	if s.dialled {
		select {
		case <-s.conn.Context().Done():
		case <-time.After(closeGrace):
		}
	} else {
		s.Stream.CancelRead(0)
	}
	_ = s.conn.CloseWithError(0, "")
	return err
}
