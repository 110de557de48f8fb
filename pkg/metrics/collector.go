// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package metrics

import (
	"context"
	"runtime"
	"time"
)

// ResourceCollector periodically samples process-level resource metrics
// (goroutine count, heap allocation, uptime) into the Prometheus gauges.
type ResourceCollector struct {
	period  time.Duration
	started time.Time
}

// NewResourceCollector creates a collector that samples every period.
// A zero period defaults to 15 seconds.
func NewResourceCollector(period time.Duration) *ResourceCollector {
	if period <= 0 {
		period = 15 * time.Second
	}
	return &ResourceCollector{
		period:  period,
		started: time.Now(),
	}
}

// Run samples resource metrics until ctx is cancelled. It blocks; run it
// in its own goroutine.
func (c *ResourceCollector) Run(ctx context.Context) {
	c.sample()
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sample()
		}
	}
}

func (c *ResourceCollector) sample() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	Goroutines.Set(float64(runtime.NumGoroutine()))
	MemoryAllocBytes.Set(float64(m.Alloc))
	ServerUptime.Set(time.Since(c.started).Seconds())
}
