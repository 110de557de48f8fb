// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package health

import (
	"context"
	"errors"
	"testing"
)

func TestLiveAlwaysHealthy(t *testing.T) {
	c := NewChecker()
	result := c.Live(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Live() status = %s, want %s", result.Status, StatusHealthy)
	}
}

func TestStartupBeforeAndAfterMark(t *testing.T) {
	c := NewChecker()

	if got := c.Startup(context.Background()); got.Status != StatusUnhealthy {
		t.Errorf("Startup() before MarkStarted = %s, want %s", got.Status, StatusUnhealthy)
	}

	c.MarkStarted()

	if got := c.Startup(context.Background()); got.Status != StatusHealthy {
		t.Errorf("Startup() after MarkStarted = %s, want %s", got.Status, StatusHealthy)
	}
}

func TestReadyDefaultsHealthy(t *testing.T) {
	c := NewChecker()
	results := c.Ready(context.Background())
	if len(results) != 1 || results[0].Status != StatusHealthy {
		t.Errorf("Ready() with no checks = %+v, want single healthy result", results)
	}
}

func TestReadyRunsRegisteredChecks(t *testing.T) {
	c := NewChecker()
	c.RegisterCheck("upstream", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusUnhealthy, Error: errors.New("timeout").Error()}
	})
	c.RegisterCheck("tables", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})

	results := c.Ready(context.Background())
	if len(results) != 2 {
		t.Fatalf("Ready() returned %d results, want 2", len(results))
	}
	if c.IsHealthy(context.Background()) {
		t.Error("IsHealthy() = true with an unhealthy check")
	}

	c.UnregisterCheck("upstream")
	if !c.IsHealthy(context.Background()) {
		t.Error("IsHealthy() = false after removing the failing check")
	}
}

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name    string
		results []CheckResult
		want    Status
	}{
		{"all healthy", []CheckResult{{Status: StatusHealthy}, {Status: StatusHealthy}}, StatusHealthy},
		{"one degraded", []CheckResult{{Status: StatusHealthy}, {Status: StatusDegraded}}, StatusDegraded},
		{"unhealthy wins", []CheckResult{{Status: StatusDegraded}, {Status: StatusUnhealthy}}, StatusUnhealthy},
		{"empty", nil, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AggregateStatus(tt.results); got != tt.want {
				t.Errorf("AggregateStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}
