package http

import (
	"context"
	"net"
	"testing"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"
)

// dialWS opens a websocket and exposes it as a net.Conn carrying the text
// line protocol, mirroring what the bridge does on the server side.
func dialWS(t *testing.T, ctx context.Context, url string) net.Conn {
	t.Helper()

	wsConn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)

	conn := websocket.NetConn(ctx, wsConn, websocket.MessageText)
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}
