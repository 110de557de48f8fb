// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package ipinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/8.8.8.8", r.URL.Path)
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"ip":"8.8.8.8","org":"AS15169 Google LLC"}`))
	}))
	defer srv.Close()

	s := NewService(srv.URL, "tok123", 5*time.Second)

	body, err := s.Lookup(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	assert.Contains(t, string(body), `"ip":"8.8.8.8"`)
}

func TestVisitor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json", r.URL.Path)
		_, _ = w.Write([]byte(`{"ip":"203.0.113.9"}`))
	}))
	defer srv.Close()

	s := NewService(srv.URL, "tok123", 5*time.Second)

	body, err := s.Visitor(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(body), "203.0.113.9")
}

func TestNoToken(t *testing.T) {
	s := NewService("http://unused.example", "", time.Second)

	_, err := s.Lookup(context.Background(), "8.8.8.8")
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = s.Visitor(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestEmptyIP(t *testing.T) {
	s := NewService("http://unused.example", "tok", time.Second)

	_, err := s.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidIP)
}

func TestUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewService(srv.URL, "tok", 5*time.Second)

	_, err := s.Lookup(context.Background(), "8.8.8.8")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	s := NewService(srv.URL, "tok", 5*time.Second)

	_, err := s.Lookup(context.Background(), "8.8.8.8")
	assert.ErrorIs(t, err, ErrUpstream)
}
