// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

// Package config loads and validates server configuration from a YAML file
// with DATABOX_* environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete server configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Health     HealthConfig     `yaml:"health"`
	CORS       CORSConfig       `yaml:"cors"`
	NTP        NTPConfig        `yaml:"ntp"`
	SiteCheck  SiteCheckConfig  `yaml:"sitecheck"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	IPInfo     IPInfoConfig     `yaml:"ipinfo"`
	Data       DataConfig       `yaml:"data"`
	Password   PasswordConfig   `yaml:"password"`
	Math       MathConfig       `yaml:"math"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls Prometheus metrics exposure
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// HealthConfig controls health probe endpoints
type HealthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// CORSConfig controls cross-origin request handling
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	MaxAge         int      `yaml:"max_age"`
}

// NTPConfig controls the time service's NTP sources
type NTPConfig struct {
	Servers []string      `yaml:"servers"`
	Timeout time.Duration `yaml:"timeout"`
}

// SiteCheckConfig controls the site availability checker
type SiteCheckConfig struct {
	AllowedHosts    []string      `yaml:"allowed_hosts"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	UserAgent       string        `yaml:"user_agent"`
	RequestsPerSec  float64       `yaml:"requests_per_sec"`
	BurstSize       int           `yaml:"burst_size"`
	AllowPrivateIPs bool          `yaml:"allow_private_ips"`
}

// DictionaryConfig controls the dictionary lookup client
type DictionaryConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// IPInfoConfig controls the IP information client
type IPInfoConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// DataConfig controls the data aggregation service
type DataConfig struct {
	LocalPath string        `yaml:"local_path"`
	HTTPURL   string        `yaml:"http_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

// PasswordConfig controls password generation limits
type PasswordConfig struct {
	MaxLength int `yaml:"max_length"`
	MaxWords  int `yaml:"max_words"`
}

// MathConfig controls expression evaluation limits
type MathConfig struct {
	MaxExpressionLength int           `yaml:"max_expression_length"`
	EvalTimeout         time.Duration `yaml:"eval_timeout"`
}

// Default returns a configuration with sensible defaults for local use.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Health: HealthConfig{
			Enabled: true,
		},
		CORS: CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", "X-Correlation-ID"},
			MaxAge:         300,
		},
		NTP: NTPConfig{
			Servers: []string{"pool.ntp.org", "time.google.com", "time.cloudflare.com"},
			Timeout: 5 * time.Second,
		},
		SiteCheck: SiteCheckConfig{
			RequestTimeout: 10 * time.Second,
			UserAgent:      "databox-sitecheck/1.0",
			RequestsPerSec: 2,
			BurstSize:      4,
		},
		Dictionary: DictionaryConfig{
			BaseURL: "https://api.dictionaryapi.dev/api/v2/entries/en",
			Timeout: 10 * time.Second,
		},
		IPInfo: IPInfoConfig{
			BaseURL: "https://ipinfo.io",
			Timeout: 10 * time.Second,
		},
		Data: DataConfig{
			Timeout: 10 * time.Second,
		},
		Password: PasswordConfig{
			MaxLength: 256,
			MaxWords:  20,
		},
		Math: MathConfig{
			MaxExpressionLength: 1024,
			EvalTimeout:         2 * time.Second,
		},
	}
}

// Load reads configuration from a YAML file and applies environment variable
// overrides. A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 - Config file path is provided by admin/user
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies DATABOX_* environment variable overrides
func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DATABOX_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("DATABOX_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if level := os.Getenv("DATABOX_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("DATABOX_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
	if servers := os.Getenv("DATABOX_NTP_SERVERS"); servers != "" {
		cfg.NTP.Servers = splitAndTrim(servers)
	}
	if hosts := os.Getenv("DATABOX_SITECHECK_ALLOWED_HOSTS"); hosts != "" {
		cfg.SiteCheck.AllowedHosts = splitAndTrim(hosts)
	}
	if token := os.Getenv("DATABOX_IPINFO_TOKEN"); token != "" {
		cfg.IPInfo.Token = token
	}
	if path := os.Getenv("DATABOX_DATA_LOCAL_PATH"); path != "" {
		cfg.Data.LocalPath = path
	}
	if url := os.Getenv("DATABOX_DATA_HTTP_URL"); url != "" {
		cfg.Data.HTTPURL = url
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}

	if len(c.NTP.Servers) == 0 {
		return fmt.Errorf("at least one NTP server must be configured")
	}
	if c.NTP.Timeout <= 0 {
		return fmt.Errorf("NTP timeout must be positive")
	}

	if c.SiteCheck.RequestTimeout <= 0 {
		return fmt.Errorf("sitecheck request timeout must be positive")
	}
	if c.SiteCheck.RequestsPerSec <= 0 {
		return fmt.Errorf("sitecheck requests_per_sec must be positive")
	}

	if c.Password.MaxLength < 1 {
		return fmt.Errorf("password max_length must be positive")
	}

	if c.Math.MaxExpressionLength < 1 {
		return fmt.Errorf("math max_expression_length must be positive")
	}
	if c.Math.EvalTimeout <= 0 {
		return fmt.Errorf("math eval_timeout must be positive")
	}

	return nil
}

// Address returns the host:port the HTTP server binds to.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
