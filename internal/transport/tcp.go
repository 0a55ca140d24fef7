package transport

import (
	"context"
	"net"
)

// TCP is the plain TCP transport.
type TCP struct{}

func (TCP) Listen(ctx context.Context, addr string) (Acceptor, error) {
	var lc net.ListenConfig
	l, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &tcpAcceptor{l: l}, nil
}

func (TCP) Dial(ctx context.Context, addr string) (Stream, error) {
	d := &net.Dialer{}
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type tcpAcceptor struct{ l net.Listener }

func (a *tcpAcceptor) Accept(ctx context.Context) (Stream, error) {
	// net.Listener has no context; closing it is the only way to unblock.
	stop := context.AfterFunc(ctx, func() { _ = a.l.Close() })
	defer stop()
	c, err := a.l.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return c, nil
}

func (a *tcpAcceptor) Addr() net.Addr { return a.l.Addr() }
func (a *tcpAcceptor) Close() error   { return a.l.Close() }
