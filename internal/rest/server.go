// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anisafifi/databox/pkg/adapters/logger"
	"github.com/anisafifi/databox/pkg/metrics"
)

// Server represents the REST API server.
type Server struct {
	server   *http.Server
	handlers *HandlerContext
	addr     string
	logger   logger.Logger
	cors     CORSConfig

	metricsEnabled bool
	metricsPath    string
}

// Config holds the REST server configuration.
type Config struct {
	// Address is the host:port to listen on (default: :8080)
	Address string

	// Services are the domain services the API dispatches to
	Services Services

	// Version is the API version string
	Version string

	// Logger is the logging adapter (optional, uses slog if not provided)
	Logger logger.Logger

	// CORS configures cross-origin request handling
	CORS CORSConfig

	// MetricsEnabled exposes Prometheus metrics when true
	MetricsEnabled bool

	// MetricsPath is the metrics endpoint path (default: /metrics)
	MetricsPath string

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration
}

// NewServer creates a new REST API server.
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	// Set defaults
	if cfg.Address == "" {
		cfg.Address = ":8080"
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 120 * time.Second
	}

	// Set up logger (default to slog if not provided)
	log := cfg.Logger
	if log == nil {
		log = logger.NewSlogAdapter(&logger.SlogConfig{
			Level: logger.LevelInfo,
		})
	}

	server := &Server{
		handlers:       NewHandlerContext(cfg.Services, cfg.Version),
		addr:           cfg.Address,
		logger:         log,
		cors:           cfg.CORS,
		metricsEnabled: cfg.MetricsEnabled,
		metricsPath:    cfg.MetricsPath,
	}

	router := server.setupRouter()

	server.server = &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return server, nil
}

// setupRouter configures the chi router with all routes and middleware.
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(s.RecoveryMiddleware())
	r.Use(s.CorrelationMiddleware()) // Add correlation ID before logging
	r.Use(s.LoggingMiddleware())
	r.Use(metrics.HTTPMiddleware)
	r.Use(CORSMiddleware(s.cors))

	// Basic health endpoint
	r.Get("/health", s.handlers.HealthHandler)
	r.Head("/health", s.handlers.HealthHandler)

	// Kubernetes-style health probes
	r.Get("/health/live", s.handlers.LivenessHandler)
	r.Get("/health/ready", s.handlers.ReadinessHandler)
	r.Get("/health/startup", s.handlers.StartupHandler)

	if s.metricsEnabled {
		r.Handle(s.metricsPath, promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Secret sharing endpoints
		r.Post("/secrets/split", s.handlers.SplitSecretHandler)
		r.Post("/secrets/combine", s.handlers.CombineSecretHandler)

		// Password endpoints
		r.Post("/passwords", s.handlers.GeneratePasswordHandler)
		r.Post("/passphrases", s.handlers.GeneratePassphraseHandler)

		// Time endpoints
		r.Get("/time/now", s.handlers.TimeNowHandler)
		r.Get("/time/utc", s.handlers.TimeUTCHandler)
		r.Get("/time/epoch", s.handlers.TimeEpochHandler)
		r.Get("/time/world", s.handlers.WorldTimesHandler)
		r.Get("/time/format", s.handlers.FormatTimeHandler)
		r.Get("/time/ntp/status", s.handlers.NTPStatusHandler)
		r.Get("/time/leap", s.handlers.LeapIndicatorHandler)
		r.Post("/time/convert", s.handlers.ConvertTimeHandler)
		r.Post("/time/diff", s.handlers.DiffTimeHandler)

		// Timezone catalog endpoints
		r.Get("/timezones", s.handlers.ListTimezonesHandler)
		r.Get("/timezones/zones", s.handlers.ListZoneNamesHandler)
		r.Get("/timezones/abbreviations", s.handlers.ListAbbreviationsHandler)
		r.Get("/timezones/offsets", s.handlers.ListOffsetsHandler)
		// Static routes above win over the wildcard in chi, so the three
		// catalog listings are not shadowed by zone name lookups.
		r.Get("/timezones/*", s.handlers.GetTimezoneHandler)

		// Math endpoint
		r.Post("/math/eval", s.handlers.EvalMathHandler)

		// Site check endpoint
		r.Post("/sites/check", s.handlers.CheckSiteHandler)

		// Dictionary endpoint
		r.Get("/dictionary/{word}", s.handlers.LookupWordHandler)

		// IP info endpoints
		r.Get("/ip/visitor", s.handlers.VisitorIPHandler)
		r.Get("/ip/{ip}", s.handlers.LookupIPHandler)

		// Data aggregation endpoint
		r.Get("/data", s.handlers.GetDataHandler)
	})

	return r
}

// Start starts the REST API server.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		logger.String("addr", s.addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the REST API server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shutdown server", logger.Error(err))
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}

// Address returns the address the server listens on.
func (s *Server) Address() string {
	return s.addr
}

// Handler returns the configured router. Tests use it with httptest.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// SetHealthChecker sets the health checker for the server.
func (s *Server) SetHealthChecker(checker HealthChecker) {
	s.handlers.SetHealthChecker(checker)
}
