package tcp

import (
	"fmt"
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"linerelay/internal/core"
)

// Server accepts raw TCP connections, greets them, and hands each one to a
// core session that feeds the dispatcher's event channel.
type Server struct {
	addr     string
	events   chan<- core.Event
	logger   *zerolog.Logger
	listener net.Listener
}

func NewServer(addr string, events chan<- core.Event, logger *zerolog.Logger) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Server{
		addr:   addr,
		events: events,
		logger: logger,
	}
}

// Start begins listening and accepting connections. It does not block.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.listener = ln

	go s.acceptLoop(ln)

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("tcp server listening")
	return nil
}

// Addr returns the bound listen address, useful when Start was given ":0".
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener. Live sessions wind down through their own
// end-of-stream paths.
func (s *Server) Stop() {
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			// Listener closed; normal shutdown path.
			return
		}

		id := uuid.New().String()
		s.logger.Info().
			Str("conn_id", id).
			Str("remote", conn.RemoteAddr().String()).
			Msg("client connected")

		// The greeting belongs to the acceptor, not the session.
		if _, err := io.WriteString(conn, core.Greeting); err != nil {
			s.logger.Warn().Err(err).Str("conn_id", id).Msg("greeting failed")
			_ = conn.Close()
			continue
		}

		go core.NewSession(id, conn, s.events, s.logger).Run()
	}
}
