package core

import (
	"io"

	"github.com/rs/zerolog"
)

// deliver drains one user's outbound queue and writes each line verbatim to
// the connection, preserving enqueue order. It returns once the queue is
// closed and drained.
//
// A failed write means the connection is gone: the rest of the queue is
// abandoned and an eviction Logout is pushed so the dispatcher drops the
// routing entry instead of feeding a dead socket. The push is non-blocking;
// if the event channel is full, the session's own end-of-stream Logout covers
// the cleanup.
func deliver(name string, conn io.Writer, queue <-chan string, events chan<- Event, logger *zerolog.Logger) {
	for line := range queue {
		if _, err := io.WriteString(conn, line); err != nil {
			logger.Warn().Err(err).Str("user", name).Msg("outbound write failed, evicting")
			deliveryFailures.Inc()
			select {
			case events <- Event{Kind: EventLogout, Name: name}:
			default:
			}
			return
		}
		deliveredLines.Inc()
	}
}
