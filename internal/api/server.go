package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/eshaffer321/rankbudget/internal/api/handlers"
	"github.com/eshaffer321/rankbudget/internal/api/middleware"
	"github.com/eshaffer321/rankbudget/internal/application/service"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/config"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/metrics"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	// MetricsPath serves Prometheus metrics when non-empty and a registry
	// is supplied.
	MetricsPath string
	// Optimizer supplies default budgets for requests that omit them.
	Optimizer config.OptimizerConfig
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8085,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		MetricsPath:    "/metrics",
	}
}

// ConfigFrom builds server settings from the application config.
func ConfigFrom(cfg *config.Config) Config {
	c := Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Optimizer:      cfg.Optimizer,
	}
	if cfg.Observability.Metrics.Enabled {
		c.MetricsPath = cfg.Observability.Metrics.Path
	}
	return c
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	service    *service.OptimizeService
	metrics    *metrics.Metrics
}

// NewServer creates a new API server. m may be nil, in which case no metrics
// are recorded or served.
func NewServer(cfg Config, svc *service.OptimizeService, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		service: svc,
		metrics: m,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.Recoverer)

	// Every route is a GET read or a POST computation.
	s.router.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))

	// Request logging
	s.router.Use(middleware.Logging(s.logger))

	if s.metrics != nil {
		s.router.Use(middleware.Metrics(s.metrics))
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler(s.service)
	s.router.Get("/health", healthHandler.ServeHTTP)

	if s.metrics != nil && s.config.MetricsPath != "" {
		s.router.Method(http.MethodGet, s.config.MetricsPath, s.metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		// Bulk results run to megabytes; /metrics negotiates its own encoding.
		r.Use(gziphandler.GzipHandler)

		// Optimization
		optimizeHandler := handlers.NewOptimizeHandler(s.service, s.config.Optimizer)
		r.Post("/optimize", optimizeHandler.Optimize)
		r.Post("/optimize/uniform", optimizeHandler.Uniform)
		r.Post("/analyze", optimizeHandler.Analyze)

		// Stored runs
		runsHandler := handlers.NewRunsHandler(s.service)
		r.Get("/runs", runsHandler.List)
		r.Get("/runs/{id}", runsHandler.Get)

		// Keyword categorization
		categorizeHandler := handlers.NewCategorizeHandler(s.service)
		r.Post("/keywords/categorize", categorizeHandler.Categorize)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
