package app

import (
	"context"
	stdhttp "net/http"

	"github.com/rs/zerolog"

	"linerelay/internal/config"
	"linerelay/internal/core"
	transporthttp "linerelay/internal/transport/http"
	"linerelay/internal/transport/tcp"
)

// App wires the dispatcher and both transports together.
type App struct {
	cfg        config.Config
	dispatcher *core.Dispatcher
	tcpServer  *tcp.Server
	httpServer *stdhttp.Server
	log        *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	dispatcher := core.NewDispatcher(core.Options{
		EventBuffer:  cfg.EventBuffer,
		QueueSize:    cfg.QueueSize,
		DrainTimeout: cfg.DrainTimeout,
	}, logger)

	return &App{
		cfg:        cfg,
		dispatcher: dispatcher,
		tcpServer:  tcp.NewServer(cfg.Addr, dispatcher.Events(), logger),
		httpServer: transporthttp.NewServer(dispatcher, cfg, logger),
		log:        logger,
	}
}

// Run starts everything and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	go a.dispatcher.Run()

	if err := a.tcpServer.Start(); err != nil {
		a.stopDispatcher()
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.tcpServer.Stop()
		a.stopDispatcher()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down")
		a.tcpServer.Stop()
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			a.stopDispatcher()
			return err
		}

		a.stopDispatcher()
		return <-serverErr
	}
}

func (a *App) stopDispatcher() {
	a.dispatcher.Stop()
	a.dispatcher.Wait()
	a.log.Info().Msg("dispatcher stopped")
}
