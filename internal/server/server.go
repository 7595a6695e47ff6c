package server

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"bridgeanchor/internal/analytics"
	"bridgeanchor/internal/chat"
	"bridgeanchor/internal/config"
	"bridgeanchor/internal/handlers"
	"bridgeanchor/internal/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Server represents the application server
type Server struct {
	echo      *echo.Echo
	config    *config.Config
	logger    zerolog.Logger
	store     *analytics.Store
	chat      *chat.Service
	collector *metrics.Collector // nil when metrics are disabled
}

// New creates a new server instance
func New(cfg *config.Config, store *analytics.Store, chatSvc *chat.Service, collector *metrics.Collector, logger zerolog.Logger) *Server {
	return &Server{
		config:    cfg,
		logger:    logger,
		store:     store,
		chat:      chatSvc,
		collector: collector,
	}
}

// zerologMiddleware creates a zerolog-based logging middleware for Echo
func (s *Server) zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			s.logger.Info().
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote_ip", c.RealIP()).
				Int("status", res.Status).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Str("user_agent", req.UserAgent()).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("HTTP request")

			return nil
		}
	}
}

// Initialize sets up the Echo framework with middleware and routes
func (s *Server) Initialize() {
	s.echo = echo.New()

	// Middleware
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Use(s.zerologMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	// Hide Echo banner
	s.echo.HideBanner = true
	s.echo.HidePort = true

	// Setup routes
	s.setupRoutes()
}

// setupRoutes configures all the application routes
func (s *Server) setupRoutes() {
	opts := analytics.Options{
		RecentEvents: s.config.RecentEventsLimit,
		TopTopics:    s.config.TopTopicsLimit,
	}

	// API group with /api prefix
	api := s.echo.Group("/api")

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health and metrics stay at root level for monitoring
	s.echo.GET("/healthz", handlers.HealthHandler(s.config.Version))
	if s.collector != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.collector.Handler()))
	}

	// API endpoints under /api prefix
	api.GET("/", handlers.RootHandler(s.config.Version, s.chat.Provider()))
	api.POST("/analytics", handlers.IngestHandler(s.store, s.collector, s.logger))
	api.GET("/analytics/dashboard", handlers.DashboardHandler(s.store, opts, s.collector, s.logger))
	api.POST("/chat", handlers.ChatHandler(s.chat, s.collector, s.logger))

	// Front-end pages
	s.echo.File("/", filepath.Join(s.config.StaticDir, "index.html"))
	s.echo.File("/dashboard", filepath.Join(s.config.StaticDir, "dashboard.html"))

	// Serve static files (this should be last to avoid conflicts)
	s.echo.Static("/", s.config.StaticDir)
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info().
		Str("port", s.config.Port).
		Str("chat_provider", s.chat.Provider()).
		Msg("Server starting")
	return s.echo.Start(":" + s.config.Port)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Server shutting down")
	return s.echo.Shutdown(ctx)
}
