package core

import (
	"strings"
	"unicode"
)

// messageDelim separates the recipient list from the body. There is no
// escaping: a body containing "->" before the first delimiter is mis-parsed.
const messageDelim = "->"

// SessionState is the decoder-visible state of one connection. Each session
// owns exactly one and it is never shared between connections: two concurrent
// sessions must not be able to observe or overwrite each other's name.
type SessionState struct {
	// Name is the lowercased username the last Login line on this connection
	// announced, or "" before any login.
	Name string
}

// LoggedIn reports whether a Login line has been decoded on this session.
func (s *SessionState) LoggedIn() bool { return s.Name != "" }

// Decode turns one raw input line into an Event against the given session
// state, mutating only that state.
//
// A line of the form "alice, bob -> text" is a Message to each listed
// recipient, but only once the session has logged in; before that it is
// silently dropped. A bare alphanumeric line is a Login: it is lowercased and
// becomes the session's name, replacing any earlier one. Everything else,
// blank lines included, is Empty.
func Decode(line string, s *SessionState) Event {
	if list, body, found := strings.Cut(line, messageDelim); found {
		if !s.LoggedIn() {
			return Event{Kind: EventEmpty}
		}
		var to []string
		for _, name := range strings.Split(list, ",") {
			if name = strings.TrimSpace(name); name != "" {
				to = append(to, name)
			}
		}
		if len(to) == 0 {
			return Event{Kind: EventEmpty}
		}
		return Event{Kind: EventMessage, From: s.Name, To: to, Body: strings.TrimSpace(body)}
	}

	name := strings.TrimSpace(line)
	if name == "" || !alphanumeric(name) {
		return Event{Kind: EventEmpty}
	}
	s.Name = strings.ToLower(name)
	return Event{Kind: EventLogin, Name: s.Name}
}

func alphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
