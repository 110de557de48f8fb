// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package dictionary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hello", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"word":"hello","meanings":[{"partOfSpeech":"noun"}]}]`))
	}))
	defer srv.Close()

	s := NewService(srv.URL, 5*time.Second)

	res, err := s.Lookup(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", res.Word)
	assert.True(t, res.Found)
	require.Len(t, res.Entries, 1)
	assert.Contains(t, string(res.Entries[0]), `"partOfSpeech":"noun"`)
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewService(srv.URL, 5*time.Second)

	res, err := s.Lookup(context.Background(), "zzzzzz")
	require.NoError(t, err)

	assert.False(t, res.Found)
	assert.Empty(t, res.Entries)
}

func TestLookupEmptyWord(t *testing.T) {
	s := NewService("http://unused.example", time.Second)

	_, err := s.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyWord)
}

func TestLookupUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewService(srv.URL, 5*time.Second)

	_, err := s.Lookup(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestLookupMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	s := NewService(srv.URL, 5*time.Second)

	_, err := s.Lookup(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestLookupEscapesWord(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	s := NewService(srv.URL, 5*time.Second)

	_, err := s.Lookup(context.Background(), "rock and roll")
	require.NoError(t, err)
	assert.Equal(t, "/rock%20and%20roll", gotPath)
}
