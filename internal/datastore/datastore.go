// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

// Package datastore aggregates JSON payloads from pluggable sources.
//
// Sources are polled in order; a failing source is skipped rather than
// failing the whole aggregation. Two sources ship with the package: a
// local JSON file and an HTTP JSON endpoint. Each source yields either a
// JSON array (flattened into items) or a single object.
package datastore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Item is one payload with its originating source name.
type Item struct {
	Source  string
	Payload json.RawMessage
}

// Source produces JSON payloads for aggregation.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]json.RawMessage, error)
}

// Service aggregates items across its sources.
type Service struct {
	sources []Source
}

// NewService creates an aggregation service over the given sources.
func NewService(sources ...Source) *Service {
	return &Service{sources: sources}
}

// GetData polls every source and returns the combined items. Sources
// that error are skipped.
func (s *Service) GetData(ctx context.Context) []Item {
	var items []Item
	for _, source := range s.sources {
		payloads, err := source.Fetch(ctx)
		if err != nil {
			continue
		}
		for _, payload := range payloads {
			items = append(items, Item{Source: source.Name(), Payload: payload})
		}
	}
	return items
}

// FileSource reads payloads from a local JSON file. A missing file
// yields no items.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements Source.
func (s *FileSource) Name() string { return "local_file" }

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	// #nosec G304 - Data file path comes from configuration
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	return splitPayloads(data)
}

// HTTPSource fetches payloads from an HTTP endpoint serving JSON.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTP-backed source.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Name implements Source.
func (s *HTTPSource) Name() string { return "http_json" }

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, s.url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return splitPayloads(body)
}

// splitPayloads flattens a JSON array into its elements; any other JSON
// value becomes a single payload.
func splitPayloads(data []byte) ([]json.RawMessage, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err == nil {
		return arr, nil
	}
	var single json.RawMessage
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	return []json.RawMessage{single}, nil
}
