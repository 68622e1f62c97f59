package core

import (
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startTestSession(t *testing.T) (net.Conn, chan Event) {
	t.Helper()
	server, client := net.Pipe()
	events := make(chan Event, 64)

	go NewSession("test-conn", server, events, nil).Run()

	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return client, events
}

func nextEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
		return Event{}
	}
}

func TestSessionDecodesLinesInOrder(t *testing.T) {
	client, events := startTestSession(t)

	_, err := fmt.Fprint(client, "bob -> too early\nAlice\nbob -> hi\n")
	require.NoError(t, err)

	// Pre-login message is noise, but it is still submitted in line order.
	require.Equal(t, EventEmpty, nextEvent(t, events).Kind)

	loginEv := nextEvent(t, events)
	require.Equal(t, EventLogin, loginEv.Kind)
	require.Equal(t, "alice", loginEv.Name)
	require.NotNil(t, loginEv.Conn, "login must carry the connection write side")

	msgEv := nextEvent(t, events)
	require.Equal(t, EventMessage, msgEv.Kind)
	require.Equal(t, "alice", msgEv.From)
	require.Equal(t, []string{"bob"}, msgEv.To)
	require.Equal(t, "hi", msgEv.Body)
}

func TestSessionHandlesLinesBeyondDefaultScannerLimit(t *testing.T) {
	client, events := startTestSession(t)

	_, err := fmt.Fprint(client, "alice\n")
	require.NoError(t, err)
	require.Equal(t, EventLogin, nextEvent(t, events).Kind)

	// Well past bufio's default 64KiB token limit.
	body := strings.Repeat("x", 256*1024)
	_, err = fmt.Fprint(client, "bob -> "+body+"\n")
	require.NoError(t, err)

	ev := nextEvent(t, events)
	require.Equal(t, EventMessage, ev.Kind)
	require.Equal(t, body, ev.Body)

	// The session is still alive and reading.
	_, err = fmt.Fprint(client, "bob -> still here\n")
	require.NoError(t, err)
	require.Equal(t, "still here", nextEvent(t, events).Body)
}

func TestSessionEmitsLogoutWithLastNameOnEOF(t *testing.T) {
	client, events := startTestSession(t)

	_, err := fmt.Fprint(client, "alice\nbob\n")
	require.NoError(t, err)
	require.Equal(t, EventLogin, nextEvent(t, events).Kind)
	require.Equal(t, EventLogin, nextEvent(t, events).Kind)

	require.NoError(t, client.Close())

	logoutEv := nextEvent(t, events)
	require.Equal(t, EventLogout, logoutEv.Kind)
	require.Equal(t, "bob", logoutEv.Name, "logout carries the last held name")
}

func TestSessionEmitsEmptyNameLogoutWhenNeverLoggedIn(t *testing.T) {
	client, events := startTestSession(t)

	require.NoError(t, client.Close())

	logoutEv := nextEvent(t, events)
	require.Equal(t, EventLogout, logoutEv.Kind)
	require.Equal(t, "", logoutEv.Name)
}

func TestSessionClosesConnOnExit(t *testing.T) {
	server, client := net.Pipe()
	events := make(chan Event, 8)
	done := make(chan struct{})

	go func() {
		NewSession("test-conn", server, events, nil).Run()
		close(done)
	}()

	require.NoError(t, client.Close())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not terminate")
	}
	// The session owns the close of its connection.
	_, err := server.Write([]byte("x"))
	require.Error(t, err)
}
