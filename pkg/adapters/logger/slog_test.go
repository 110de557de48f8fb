// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/anisafifi/databox/pkg/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(buf *bytes.Buffer) *SlogAdapter {
	return NewSlogAdapter(&SlogConfig{
		Level:  LevelDebug,
		Format: "json",
		Output: buf,
	})
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var record map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &record))
	return record
}

func TestSlogAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := newTestAdapter(&buf)

	log.Info("request completed", String("method", "GET"), Int("status", 200))

	record := lastRecord(t, &buf)
	assert.Equal(t, "request completed", record["msg"])
	assert.Equal(t, "GET", record["method"])
	assert.Equal(t, float64(200), record["status"])
}

func TestSlogAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	log := newTestAdapter(&buf)

	child := log.With(String("component", "rest"))
	child.Warn("slow handler")

	record := lastRecord(t, &buf)
	assert.Equal(t, "rest", record["component"])
	assert.Equal(t, "WARN", record["level"])
}

func TestSlogAdapter_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	log := newTestAdapter(&buf)

	ctx := correlation.WithCorrelationID(context.Background(), "req-42")
	log.InfoContext(ctx, "handled")

	record := lastRecord(t, &buf)
	assert.Equal(t, "req-42", record["correlation_id"])
}

func TestSlogAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogAdapter(&SlogConfig{
		Level:  LevelWarn,
		Format: "json",
		Output: &buf,
	})

	log.Debug("hidden")
	log.Info("also hidden")
	assert.Zero(t, buf.Len())

	log.Warn("visible")
	assert.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}
