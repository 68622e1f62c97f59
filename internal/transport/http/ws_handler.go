package http

import (
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"linerelay/internal/core"
)

// WSHandler accepts websocket connections and runs the same newline-delimited
// chat protocol over them that the TCP listener speaks.
type WSHandler struct {
	events chan<- core.Event
	log    *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(events chan<- core.Event, logger *zerolog.Logger) stdhttp.Handler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &WSHandler{events: events, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}

	id := uuid.New().String()
	h.log.Info().Str("conn_id", id).Str("remote", r.RemoteAddr).Msg("ws client connected")

	// NetConn turns the socket into a byte stream, so the session read loop
	// and the delivery goroutine treat it exactly like a TCP connection.
	netConn := websocket.NetConn(r.Context(), conn, websocket.MessageText)

	if _, err := netConn.Write([]byte(core.Greeting)); err != nil {
		h.log.Warn().Err(err).Str("conn_id", id).Msg("greeting failed")
		_ = netConn.Close()
		return
	}

	// Blocks until the peer goes away; the session owns the close.
	core.NewSession(id, netConn, h.events, h.log).Run()
}
