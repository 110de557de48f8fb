// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

// Package dictionary looks up English words against a dictionary API.
package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrEmptyWord is returned when no word is given.
	ErrEmptyWord = errors.New("word is required")

	// ErrUpstream is returned when the dictionary API answers with an
	// unexpected status or malformed body.
	ErrUpstream = errors.New("dictionary lookup failed")
)

// Result holds a dictionary lookup. Entries carries the upstream API's
// entry objects verbatim; it is empty when the word was not found.
type Result struct {
	Word    string
	Found   bool
	Entries []json.RawMessage
}

// Service queries a dictionaryapi.dev-compatible endpoint.
type Service struct {
	baseURL string
	client  *http.Client
}

// NewService creates a dictionary client. baseURL points at the
// language-scoped entries endpoint; the word is appended as a path
// segment.
func NewService(baseURL string, timeout time.Duration) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Lookup fetches dictionary entries for word. A 404 from the upstream is
// not an error; it yields Found: false.
func (s *Service) Lookup(ctx context.Context, word string) (*Result, error) {
	if word == "" {
		return nil, ErrEmptyWord
	}

	lookupURL := s.baseURL + "/" + url.PathEscape(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return &Result{Word: word, Found: false, Entries: []json.RawMessage{}}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return &Result{Word: word, Found: true, Entries: entries}, nil
}
