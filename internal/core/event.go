package core

import "io"

// EventKind tags what a decoded line or lifecycle transition means.
type EventKind int

const (
	// EventEmpty is decode noise; the dispatcher ignores it.
	EventEmpty EventKind = iota
	// EventLogin binds a username to a connection's write side.
	EventLogin
	// EventMessage carries a body addressed to one or more named recipients.
	EventMessage
	// EventLogout removes a user and stops its delivery goroutine. Sessions
	// emit it on stream end; delivery goroutines emit it on write failure.
	EventLogout
	// EventNames asks the dispatcher for the sorted list of logged-in users.
	EventNames
)

func (k EventKind) String() string {
	switch k {
	case EventLogin:
		return "login"
	case EventMessage:
		return "message"
	case EventLogout:
		return "logout"
	case EventNames:
		return "names"
	default:
		return "empty"
	}
}

// Event is produced by decoding one input line (or by a session or delivery
// lifecycle edge) and consumed exactly once by the dispatcher.
type Event struct {
	Kind EventKind

	// Name is the username for Login and Logout.
	Name string
	// Conn is the connection write side a Login's delivery goroutine binds to.
	Conn io.WriteCloser

	// Message fields.
	From string
	To   []string
	Body string

	// Reply receives the answer to a Names query. Must be buffered; the
	// dispatcher never blocks on it.
	Reply chan []string
}
