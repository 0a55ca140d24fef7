// Package transport abstracts how the receiver obtains its listening
// endpoint and its single byte stream, and how the sender reaches it.
// TCP is the reference transport; QUIC carries the same byte stream on one
// bidirectional stream per connection.
package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
)

// Stream is one accepted or dialled byte stream.
type Stream interface {
	io.ReadWriteCloser
	RemoteAddr() net.Addr
}

// Acceptor is a bound listening endpoint.
type Acceptor interface {
	// Accept blocks until a peer connects or ctx is done.
	Accept(ctx context.Context) (Stream, error)
	Addr() net.Addr
	Close() error
}

// Listener binds an Acceptor on addr (host:port).
type Listener interface {
	Listen(ctx context.Context, addr string) (Acceptor, error)
}

// Dialer opens a Stream to addr.
type Dialer interface {
	Dial(ctx context.Context, addr string) (Stream, error)
}

const (
	NameTCP  = "tcp"
	NameQUIC = "quic"
)

// Names lists the supported transport names.
func Names() []string { return []string{NameTCP, NameQUIC} }

// Valid reports whether name is a known transport.
func Valid(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameTCP, NameQUIC:
		return true
	}
	return false
}

// Host returns the host part of addr without port, e.g. "203.0.113.5".
func Host(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	switch a := addr.(type) {
	case *net.TCPAddr:
		return a.IP.String()
	case *net.UDPAddr:
		return a.IP.String()
	}
	s := addr.String()
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// NewListener builds the server side for a transport name.
func NewListener(name string, tlsOpts TLSOptions) (Listener, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameTCP:
		return TCP{}, nil
	case NameQUIC:
		conf, err := tlsOpts.ServerConfig()
		if err != nil {
			return nil, err
		}
		return QUIC{TLS: conf}, nil
	}
	return nil, fmt.Errorf("unknown transport %q", name)
}

// NewDialer builds the client side for a transport name.
func NewDialer(name string) (Dialer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameTCP:
		return TCP{}, nil
	case NameQUIC:
		return QUIC{}, nil
	}
	return nil, fmt.Errorf("unknown transport %q", name)
}
