// Package spectator serves read-only match views over HTTP
package spectator

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Config holds dependencies for the spectator server
type Config struct {
	Registry match.Registry
	EventBus events.EventBus

	// Gatherer backs /metrics. Defaults to the prometheus default gatherer.
	Gatherer prometheus.Gatherer

	// AllowedOrigin restricts websocket upgrades. Empty allows any origin.
	AllowedOrigin string
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.Registry == nil {
		vb.RequiredField("Registry")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	return vb.Build()
}

// Server exposes health, metrics and match views
type Server struct {
	registry match.Registry
	bus      events.EventBus
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader
}

// New creates a spectator server
func New(cfg *Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	allowedOrigin := cfg.AllowedOrigin
	return &Server{
		registry: cfg.Registry,
		bus:      cfg.EventBus,
		gatherer: gatherer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}, nil
}

// Router builds the gin engine with every route registered
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	r.GET("/matches", s.listMatches)
	r.GET("/matches/:id", s.getMatch)
	r.GET("/matches/:id/ws", s.watchMatch)
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"matches": len(s.registry.List(c.Request.Context())),
	})
}

func (s *Server) listMatches(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"matches": s.registry.List(c.Request.Context())})
}

func (s *Server) getMatch(c *gin.Context) {
	ctx := c.Request.Context()

	a, err := s.registry.Get(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	snap, err := a.Snapshot(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func writeError(c *gin.Context, err error) {
	code := errors.CodeInternal
	var gameErr *errors.Error
	if errors.As(err, &gameErr) {
		code = gameErr.Code
	}

	c.JSON(code.HTTPStatus(), gin.H{
		"error": err.Error(),
		"code":  string(code),
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
