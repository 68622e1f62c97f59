package core

import (
	"bufio"
	"io"

	"github.com/rs/zerolog"
)

// Greeting is written by the acceptor immediately after a connection is
// accepted, before the session's read loop starts.
const Greeting = "Connected\n"

// maxLineSize bounds one protocol line. A longer line errors the read loop
// and ends the session.
const maxLineSize = 1 << 20

// Session owns one accepted connection: it reads one line at a time, decodes
// each against its own state and forwards the resulting events, in read
// order, to the dispatcher.
type Session struct {
	id     string
	conn   io.ReadWriteCloser
	events chan<- Event
	state  SessionState
	log    *zerolog.Logger
}

// NewSession builds a session for an accepted connection. The id is only used
// for log correlation.
func NewSession(id string, conn io.ReadWriteCloser, events chan<- Event, logger *zerolog.Logger) *Session {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Session{id: id, conn: conn, events: events, log: logger}
}

// Run blocks until the read side of the connection reaches end-of-stream or
// fails. Whatever name the session last held ("" if it never logged in) is
// flushed as a final Logout so the dispatcher can clean up, and the
// connection is closed on the way out.
func (s *Session) Run() {
	defer func() {
		_ = s.conn.Close()
	}()

	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		ev := Decode(scanner.Text(), &s.state)
		if ev.Kind == EventLogin {
			ev.Conn = s.conn
		}
		s.events <- ev
	}
	if err := scanner.Err(); err != nil {
		s.log.Warn().Err(err).Str("conn_id", s.id).Msg("session read failed")
	}

	s.events <- Event{Kind: EventLogout, Name: s.state.Name}
	s.log.Debug().Str("conn_id", s.id).Str("user", s.state.Name).Msg("session ended")
}
