package core

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	d := NewDispatcher(Options{
		EventBuffer:  128,
		QueueSize:    64,
		DrainTimeout: 200 * time.Millisecond,
	}, nil)
	go d.Run()
	t.Cleanup(func() {
		d.Stop()
		d.Wait()
	})
	return d
}

// testConn is one fake client: the server half goes into Login events, the
// client half is drained line by line into a channel.
type testConn struct {
	server net.Conn
	client net.Conn
	lines  chan string
}

func newTestConn(t *testing.T) *testConn {
	t.Helper()
	server, client := net.Pipe()
	tc := &testConn{server: server, client: client, lines: make(chan string, 256)}

	go func() {
		scanner := bufio.NewScanner(client)
		for scanner.Scan() {
			tc.lines <- scanner.Text()
		}
		close(tc.lines)
	}()

	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})
	return tc
}

func (tc *testConn) next(t *testing.T) string {
	t.Helper()
	select {
	case line, ok := <-tc.lines:
		require.True(t, ok, "connection closed while waiting for a line")
		return line
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for a line")
		return ""
	}
}

func (tc *testConn) expectSilence(t *testing.T) {
	t.Helper()
	select {
	case line, ok := <-tc.lines:
		if ok {
			t.Fatalf("expected no line, got %q", line)
		}
	case <-time.After(150 * time.Millisecond):
	}
}

func login(t *testing.T, d *Dispatcher, tc *testConn, name string) {
	t.Helper()
	d.Events() <- Event{Kind: EventLogin, Name: name, Conn: tc.server}
	require.Equal(t, "Logged in as: "+name, tc.next(t))
}
