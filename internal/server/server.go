// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"
	"time"

	"github.com/anisafifi/databox/internal/config"
	"github.com/anisafifi/databox/internal/datastore"
	"github.com/anisafifi/databox/internal/dictionary"
	"github.com/anisafifi/databox/internal/ipinfo"
	"github.com/anisafifi/databox/internal/mathexpr"
	"github.com/anisafifi/databox/internal/password"
	"github.com/anisafifi/databox/internal/rest"
	"github.com/anisafifi/databox/internal/sitecheck"
	"github.com/anisafifi/databox/internal/timeservice"
	"github.com/anisafifi/databox/internal/timezone"
	"github.com/anisafifi/databox/pkg/adapters/logger"
	"github.com/anisafifi/databox/pkg/health"
	"github.com/anisafifi/databox/pkg/metrics"
)

// Server wires configuration, domain services, the REST API, health
// probes and metrics into one runnable unit.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	services rest.Services

	restServer *rest.Server

	healthChecker    *health.Checker
	metricsCollector *metrics.ResourceCollector

	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	shutdownCh chan struct{}
}

// New creates a new server instance from the given configuration.
func New(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := setupLogger(cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		config:     cfg,
		logger:     log,
		ctx:        ctx,
		cancel:     cancel,
		shutdownCh: make(chan struct{}),
	}

	s.initializeServices()
	s.initializeHealth()

	if err := s.initializeREST(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize REST server: %w", err)
	}

	return s, nil
}

// setupLogger configures the logger based on config
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case "text", "console":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// getBuildVersion retrieves the version from build information
func getBuildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.version" {
			if setting.Value != "" && setting.Value != "devel" {
				return setting.Value
			}
		}
		if setting.Key == "vcs.revision" {
			if len(setting.Value) >= 7 {
				return setting.Value[:7]
			}
			return setting.Value
		}
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return "dev"
}

// initializeServices constructs the domain services from configuration.
func (s *Server) initializeServices() {
	cfg := s.config

	s.services = rest.Services{
		Password: password.NewService(cfg.Password.MaxLength),
		Time:     timeservice.NewService(cfg.NTP.Servers, cfg.NTP.Timeout),
		Timezone: timezone.NewService(),
		Math:     mathexpr.NewService(cfg.Math.MaxExpressionLength, cfg.Math.EvalTimeout),
		SiteCheck: sitecheck.NewService(sitecheck.Options{
			AllowedHosts:    cfg.SiteCheck.AllowedHosts,
			RequestTimeout:  cfg.SiteCheck.RequestTimeout,
			UserAgent:       cfg.SiteCheck.UserAgent,
			RequestsPerSec:  cfg.SiteCheck.RequestsPerSec,
			BurstSize:       cfg.SiteCheck.BurstSize,
			AllowPrivateIPs: cfg.SiteCheck.AllowPrivateIPs,
		}),
		Dictionary: dictionary.NewService(cfg.Dictionary.BaseURL, cfg.Dictionary.Timeout),
		IPInfo:     ipinfo.NewService(cfg.IPInfo.BaseURL, cfg.IPInfo.Token, cfg.IPInfo.Timeout),
		Data:       s.buildDataService(),
	}

	s.logger.Info("Domain services initialized")
}

// buildDataService assembles the data aggregation service from the
// configured sources. Sources left unconfigured are omitted.
func (s *Server) buildDataService() *datastore.Service {
	var sources []datastore.Source
	if s.config.Data.LocalPath != "" {
		sources = append(sources, datastore.NewFileSource(s.config.Data.LocalPath))
	}
	if s.config.Data.HTTPURL != "" {
		sources = append(sources, datastore.NewHTTPSource(s.config.Data.HTTPURL, s.config.Data.Timeout))
	}
	return datastore.NewService(sources...)
}

// initializeHealth creates and configures the health checker.
func (s *Server) initializeHealth() {
	s.healthChecker = health.NewChecker()

	// Readiness depends only on local state. Upstream APIs (NTP pools,
	// the dictionary, ipinfo) are checked per-request, not per-probe,
	// so a flaky upstream does not pull the whole service out of
	// rotation.
	tz := s.services.Timezone
	s.healthChecker.RegisterCheck("timezone-catalog", func(ctx context.Context) health.CheckResult {
		start := time.Now()
		zones := tz.ZoneNames()
		if len(zones) == 0 {
			return health.CheckResult{
				Name:    "timezone-catalog",
				Status:  health.StatusUnhealthy,
				Message: "No timezones loaded",
				Latency: time.Since(start),
			}
		}
		return health.CheckResult{
			Name:    "timezone-catalog",
			Status:  health.StatusHealthy,
			Message: fmt.Sprintf("%d timezones loaded", len(zones)),
			Latency: time.Since(start),
		}
	})

	if s.config.Data.LocalPath != "" {
		path := s.config.Data.LocalPath
		s.healthChecker.RegisterCheck("data-local-file", func(ctx context.Context) health.CheckResult {
			start := time.Now()
			if _, err := os.Stat(path); err != nil && !os.IsNotExist(err) {
				return health.CheckResult{
					Name:    "data-local-file",
					Status:  health.StatusDegraded,
					Message: "Local data file is not accessible",
					Error:   err.Error(),
					Latency: time.Since(start),
				}
			}
			return health.CheckResult{
				Name:    "data-local-file",
				Status:  health.StatusHealthy,
				Message: "Local data file is accessible",
				Latency: time.Since(start),
			}
		})
	}

	s.logger.Info("Health checker initialized")
}

// initializeREST constructs the REST API server.
func (s *Server) initializeREST() error {
	restLogger := logger.NewSlogAdapter(&logger.SlogConfig{
		Logger: s.logger.With("component", "rest"),
	})

	restServer, err := rest.NewServer(&rest.Config{
		Address:  s.config.Address(),
		Services: s.services,
		Version:  getBuildVersion(),
		Logger:   restLogger,
		CORS: rest.CORSConfig{
			Enabled:        s.config.CORS.Enabled,
			AllowedOrigins: s.config.CORS.AllowedOrigins,
			AllowedMethods: s.config.CORS.AllowedMethods,
			AllowedHeaders: s.config.CORS.AllowedHeaders,
			MaxAge:         s.config.CORS.MaxAge,
		},
		MetricsEnabled: s.config.Metrics.Enabled,
		MetricsPath:    s.config.Metrics.Path,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
	})
	if err != nil {
		return err
	}

	restServer.SetHealthChecker(s.healthChecker)
	s.restServer = restServer
	return nil
}

// Start starts the REST server and background collectors.
func (s *Server) Start() error {
	s.logger.Info("Starting databox server...")

	if s.config.Metrics.Enabled {
		metrics.Enable()
		s.metricsCollector = metrics.NewResourceCollector(30 * time.Second)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.metricsCollector.Run(s.ctx)
		}()
		s.logger.Info("Metrics collection enabled", "path", s.config.Metrics.Path)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info("Starting REST server", "address", s.config.Address())
		if err := s.restServer.Start(); err != nil {
			s.logger.Error("REST server error", slog.Any("error", err))
		}
	}()

	s.healthChecker.MarkStarted()
	s.logger.Info("Server started successfully")

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.logger.Info("Shutting down server...")

	s.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if s.restServer != nil {
		if err := s.restServer.Stop(shutdownCtx); err != nil {
			s.logger.Error("Error shutting down REST server", slog.Any("error", err))
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("All servers stopped")
	case <-shutdownCtx.Done():
		s.logger.Warn("Shutdown timeout exceeded, forcing stop")
	}

	close(s.shutdownCh)
	s.logger.Info("Server shutdown complete")

	return nil
}

// WaitForShutdown blocks until the server is shut down
func (s *Server) WaitForShutdown() {
	<-s.shutdownCh
}

// RESTServer returns the REST server instance
func (s *Server) RESTServer() *rest.Server {
	return s.restServer
}

// SetupSignalHandler sets up signal handling for graceful shutdown
func SetupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signalCh
		slog.Info("Received shutdown signal")
		cancel()
	}()

	return ctx
}
