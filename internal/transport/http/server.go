package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"linerelay/internal/config"
	"linerelay/internal/core"
)

// NewServer builds the ops HTTP server: liveness, metrics, the logged-in user
// listing, and the websocket bridge into the same chat protocol.
func NewServer(dispatcher *core.Dispatcher, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(dispatcher, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter wires the ops routes onto a gin engine.
func NewRouter(dispatcher *core.Dispatcher, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/users", usersHandler(dispatcher))
	router.GET("/ws", gin.WrapH(NewWSHandler(dispatcher.Events(), logger)))

	return router
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

func usersHandler(dispatcher *core.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := dispatcher.Users(c.Request.Context())
		if err != nil {
			c.JSON(stdhttp.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(stdhttp.StatusOK, gin.H{"users": users})
	}
}
