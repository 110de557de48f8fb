// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

// Package metrics provides Prometheus instrumentation for databox
// operations: per-service operation counters and latency histograms, error
// counters, HTTP request metrics and process resource gauges.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all databox metrics
	Namespace = "databox"

	// Label names
	LabelOperation  = "operation"
	LabelService    = "service"
	LabelStatus     = "status"
	LabelErrorType  = "error_type"
	LabelMethod     = "method"
	LabelStatusCode = "status_code"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Service identifiers
	ServiceSecrets    = "secrets"
	ServicePassword   = "password"
	ServiceTime       = "time"
	ServiceTimezone   = "timezone"
	ServiceMath       = "math"
	ServiceSiteCheck  = "sitecheck"
	ServiceDictionary = "dictionary"
	ServiceIPInfo     = "ipinfo"
	ServiceData       = "data"

	// Operation names
	OpSplit      = "split"
	OpCombine    = "combine"
	OpGenerate   = "generate"
	OpPassphrase = "passphrase"
	OpNow        = "now"
	OpConvert    = "convert"
	OpEvaluate   = "evaluate"
	OpCheck      = "check"
	OpLookup     = "lookup"
	OpFetch      = "fetch"
)

var (
	// OperationsTotal tracks the total number of service operations by
	// operation, service, and status. Use RecordOperation to increment.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of service operations by operation, service, and status",
		},
		[]string{LabelOperation, LabelService, LabelStatus},
	)

	// OperationDuration tracks the duration of service operations in seconds.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{LabelOperation, LabelService},
	)

	// ErrorsTotal tracks the total number of errors by operation, service, and
	// error type. Error types should be specific (e.g., "invalid_share").
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation, service, and error type",
		},
		[]string{LabelOperation, LabelService, LabelErrorType},
	)

	// HTTPRequestsTotal tracks the total number of HTTP requests by method and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method and status code",
		},
		[]string{LabelMethod, LabelStatusCode},
	)

	// HTTPRequestDuration tracks the duration of HTTP requests in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelMethod},
	)

	// ActiveConnections tracks the number of in-flight HTTP requests.
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_connections",
			Help:      "Number of in-flight HTTP requests",
		},
	)

	// Goroutines tracks the current number of goroutines.
	// Updated periodically by the resource collector.
	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "goroutines",
			Help:      "Current number of goroutines",
		},
	)

	// MemoryAllocBytes tracks the current bytes of allocated heap objects.
	// Updated periodically by the resource collector.
	MemoryAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "memory_alloc_bytes",
			Help:      "Current bytes of allocated heap objects",
		},
	)

	// ServerUptime tracks the server uptime in seconds since startup.
	ServerUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "server_uptime_seconds",
			Help:      "Server uptime in seconds since startup",
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	enabled.Store(true)
}

// RecordOperation records a service operation with its duration and status.
//
// Example:
//
//	start := time.Now()
//	shares, err := secretsharing.Split(secret, n, t)
//	if err != nil {
//	    metrics.RecordOperation(metrics.OpSplit, metrics.ServiceSecrets, metrics.StatusError, time.Since(start).Seconds())
//	} else {
//	    metrics.RecordOperation(metrics.OpSplit, metrics.ServiceSecrets, metrics.StatusSuccess, time.Since(start).Seconds())
//	}
func RecordOperation(operation, service, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, service, status).Inc()
	OperationDuration.WithLabelValues(operation, service).Observe(duration)
}

// RecordError records an error event with context about where it occurred.
func RecordError(operation, service, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, service, errorType).Inc()
}

// RecordHTTPRequest records an HTTP request with its duration and status.
func RecordHTTPRequest(method, statusCode string, duration float64) {
	if !enabled.Load() {
		return
	}
	HTTPRequestsTotal.WithLabelValues(method, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method).Observe(duration)
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}
