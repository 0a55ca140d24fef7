package transport

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost(t *testing.T) {
	assert.Equal(t, "203.0.113.5", Host(&net.TCPAddr{IP: net.ParseIP("203.0.113.5"), Port: 51000}))
	assert.Equal(t, "::1", Host(&net.UDPAddr{IP: net.ParseIP("::1"), Port: 7000}))
	assert.Equal(t, "", Host(nil))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("tcp"))
	assert.True(t, Valid(" QUIC "))
	assert.False(t, Valid("udp"))
}

func roundTrip(t *testing.T, l Listener, d Dialer) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	acc, err := l.Listen(ctx, "127.0.0.1:0")
	require.NoError(t, err)
	defer acc.Close()

	got := make(chan []byte, 1)
	errc := make(chan error, 1)
	go func() {
		s, err := acc.Accept(ctx)
		if err != nil {
			errc <- err
			return
		}
		defer s.Close()
		b, err := io.ReadAll(s)
		if err != nil {
			errc <- err
			return
		}
		got <- b
	}()

	s, err := d.Dial(ctx, acc.Addr().String())
	require.NoError(t, err)
	_, err = s.Write([]byte("hello, receiver"))
	require.NoError(t, err)
	closed := make(chan error, 1)
	go func() { closed <- s.Close() }()

	select {
	case b := <-got:
		assert.Equal(t, "hello, receiver", string(b))
	case err := <-errc:
		t.Fatalf("accept/read: %v", err)
	case <-ctx.Done():
		t.Fatal("timed out")
	}
	<-closed
}

func TestTCPRoundTrip(t *testing.T) {
	roundTrip(t, TCP{}, TCP{})
}

func TestQUICRoundTrip(t *testing.T) {
	conf, err := SelfSignedTLS()
	require.NoError(t, err)
	roundTrip(t, QUIC{TLS: conf}, QUIC{})
}

func TestAcceptHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	acc, err := TCP{}.Listen(ctx, "127.0.0.1:0")
	require.NoError(t, err)
	defer acc.Close()

	done := make(chan error, 1)
	go func() {
		_, err := acc.Accept(ctx)
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("accept did not unblock")
	}
}

func TestQUICListenRequiresTLS(t *testing.T) {
	_, err := QUIC{}.Listen(context.Background(), "127.0.0.1:0")
	assert.ErrorIs(t, err, ErrMissingTLS)
}

func TestNewListener(t *testing.T) {
	l, err := NewListener("tcp", TLSOptions{})
	require.NoError(t, err)
	assert.IsType(t, TCP{}, l)

	l, err = NewListener("quic", TLSOptions{})
	require.NoError(t, err)
	q, ok := l.(QUIC)
	require.True(t, ok)
	assert.Contains(t, q.TLS.NextProtos, alpn)

	_, err = NewListener("sctp", TLSOptions{})
	assert.Error(t, err)

	_, err = NewListener("quic", TLSOptions{CertFile: "only-cert.pem"})
	assert.Error(t, err)
}
