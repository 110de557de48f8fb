// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

// Package ipinfo queries the ipinfo.io API for IP address details.
//
// All requests require a configured API token, sent as a bearer
// credential. Responses are passed through as raw JSON objects since the
// upstream schema varies by plan.
package ipinfo

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
	// ErrNoToken is returned when no API token is configured.
	ErrNoToken = errors.New("ipinfo token is not configured")

	// ErrInvalidIP is returned when the IP argument is empty.
	ErrInvalidIP = errors.New("ip is required")

	// ErrUpstream is returned when the ipinfo API answers with an
	// unexpected status or malformed body.
	ErrUpstream = errors.New("ipinfo request failed")
)

// Service queries an ipinfo.io-compatible endpoint.
type Service struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewService creates an ipinfo client. The token may be empty; requests
// then fail with ErrNoToken.
func NewService(baseURL, token string, timeout time.Duration) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Lookup fetches details for the given IP address.
func (s *Service) Lookup(ctx context.Context, ip string) (json.RawMessage, error) {
	if ip == "" {
		return nil, ErrInvalidIP
	}
	return s.fetch(ctx, s.baseURL+"/"+url.PathEscape(ip))
}

// Visitor fetches details for the caller's own public address.
func (s *Service) Visitor(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, s.baseURL+"/json")
}

func (s *Service) fetch(ctx context.Context, fetchURL string) (json.RawMessage, error) {
	if s.token == "" {
		return nil, ErrNoToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON response", ErrUpstream)
	}
	return json.RawMessage(body), nil
}
