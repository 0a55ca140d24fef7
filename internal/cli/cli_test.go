package cli

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/yprlog/internal/receiver"
	"github.com/mithrel/yprlog/internal/sender"
	"github.com/mithrel/yprlog/pkg/api"
)

// syncBuffer guards a bytes.Buffer written from the display goroutine.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func runCmd(ctx context.Context, out, errOut *syncBuffer, args ...string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

func TestListenPlainScenario(t *testing.T) {
	isolateConfig(t)
	port := freePort(t)
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out, errOut := &syncBuffer{}, &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- runCmd(ctx, out, errOut, "listen", "--display", "plain", "--host", "127.0.0.1", "--port", strconv.Itoa(port))
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "server start at ")
	}, 5*time.Second, 10*time.Millisecond)

	res, err := sender.Send(ctx, sender.Config{Addr: addr}, sender.Records(
		api.Record{Yaw: 1, Pitch: -2.5, Roll: 0},
		api.Record{Yaw: 90, Pitch: 0, Roll: -90},
	))
	require.NoError(t, err)
	require.Equal(t, uint64(2), res.Records)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("listen did not exit after the client closed")
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "server start at "))
	assert.Equal(t, "client's ip address is 127.0.0.1", lines[1])
	assert.Equal(t, "yaw pitch roll received from client: 1.0 -2.5 0.0", lines[2])
	assert.Equal(t, "yaw pitch roll received from client: 90.0 0.0 -90.0", lines[3])
	assert.Contains(t, errOut.String(), "stream ended after 2 records")
}

func TestListenPlainPartialRecordFails(t *testing.T) {
	isolateConfig(t)
	port := freePort(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out, errOut := &syncBuffer{}, &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- runCmd(ctx, out, errOut, "listen", "--display", "plain", "--host", "127.0.0.1", "--port", strconv.Itoa(port))
	}()

	var c net.Conn
	require.Eventually(t, func() bool {
		var err error
		c, err = net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	_, err := c.Write([]byte{0x3f, 0x80, 0x00})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	err = <-done
	assert.ErrorIs(t, err, receiver.ErrDecode)
	assert.NotContains(t, out.String(), "yaw pitch roll")
}

func TestListenBindFailure(t *testing.T) {
	isolateConfig(t)
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	err = runCmd(context.Background(), &syncBuffer{}, &syncBuffer{}, "listen", "--display", "plain", "--host", "127.0.0.1", "--port", strconv.Itoa(port))
	assert.ErrorIs(t, err, receiver.ErrBind)
}

func TestInvalidFlagRejected(t *testing.T) {
	isolateConfig(t)
	err := runCmd(context.Background(), &syncBuffer{}, &syncBuffer{}, "listen", "--transport", "carrier-pigeon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport must be one of")
}

func TestSendRecords(t *testing.T) {
	isolateConfig(t)
	sink := &recordingSink{}
	r, err := receiver.Start(context.Background(), receiver.Config{Host: "127.0.0.1"}, sink)
	require.NoError(t, err)
	defer r.Stop()

	out := &syncBuffer{}
	err = runCmd(context.Background(), out, &syncBuffer{}, "send", "--addr", r.Addr().String(), "-r", "1,-2.5,0", "-r", "90,0,-90")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "sent 2 records")

	res := r.Wait()
	assert.Equal(t, uint64(2), res.Records)
	assert.Contains(t, out.String(), res.Digest)
}

func TestConfigGenerateAndShow(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "yprlog", "config.toml")

	out := &syncBuffer{}
	require.NoError(t, runCmd(context.Background(), out, &syncBuffer{}, "config", "generate"))
	assert.Contains(t, out.String(), "Wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "port = 7000")

	err = runCmd(context.Background(), &syncBuffer{}, &syncBuffer{}, "config", "generate")
	assert.Error(t, err, "refuses to clobber")

	out = &syncBuffer{}
	require.NoError(t, runCmd(context.Background(), out, &syncBuffer{}, "config", "generate", "--overwrite"))
	assert.Contains(t, out.String(), "Backup: "+path+".bak")

	out = &syncBuffer{}
	require.NoError(t, runCmd(context.Background(), out, &syncBuffer{}, "config", "show"))
	assert.Contains(t, out.String(), "listen.port = 7000")
	assert.Contains(t, out.String(), "# from "+path)
}

func TestCompletion(t *testing.T) {
	isolateConfig(t)
	out := &syncBuffer{}
	require.NoError(t, runCmd(context.Background(), out, &syncBuffer{}, "completion", "bash"))
	assert.Contains(t, out.String(), "yprlog")
	assert.Error(t, runCmd(context.Background(), &syncBuffer{}, &syncBuffer{}, "completion", "tcsh"))
}

type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSink) AppendLine(text string) {
	s.mu.Lock()
	s.lines = append(s.lines, text)
	s.mu.Unlock()
}
