// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package sitecheck

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(opts Options) *Service {
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 5 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 100
	}
	// httptest servers listen on loopback
	opts.AllowPrivateIPs = true
	return NewService(opts)
}

func TestCheckHEAD(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("X-Internal-Secret", "hidden")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := newTestService(Options{UserAgent: "databox-test/1.0"})

	res, err := s.Check(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, http.MethodHead, method)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, res.OK)
	assert.False(t, res.Redirected)
	assert.Greater(t, res.ResponseTimeMs, 0.0)
	assert.Equal(t, "text/html", res.Headers["Content-Type"])
	// Headers outside the allowlist are stripped
	assert.NotContains(t, res.Headers, "X-Internal-Secret")
}

func TestCheckFallsBackToGET(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := newTestService(Options{})

	res, err := s.Check(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, res.OK)
}

func TestCheckRedirect(t *testing.T) {
	var target *httptest.Server
	target = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer srv.Close()

	s := newTestService(Options{})

	res, err := s.Check(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.True(t, res.Redirected)
	assert.Equal(t, target.URL, res.FinalURL)
}

func TestCheckErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := newTestService(Options{})

	res, err := s.Check(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestValidateURL(t *testing.T) {
	s := newTestService(Options{})

	tests := []struct {
		name string
		url  string
		want error
	}{
		{"ftp scheme", "ftp://example.com/file", ErrInvalidScheme},
		{"file scheme", "file:///etc/passwd", ErrInvalidScheme},
		{"no scheme", "example.com", ErrInvalidScheme},
		{"no host", "http://", ErrMissingHost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Check(context.Background(), tt.url)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAllowlist(t *testing.T) {
	s := newTestService(Options{AllowedHosts: []string{"example.com"}})

	_, err := s.Check(context.Background(), "https://evil.test/")
	assert.ErrorIs(t, err, ErrHostNotAllowed)

	// Subdomains of an allowlisted domain pass URL validation
	_, err = s.validateURL("https://api.example.com/health")
	assert.NoError(t, err)

	// Suffix matching must not allow lookalike domains
	_, err = s.Check(context.Background(), "https://notexample.com/")
	assert.ErrorIs(t, err, ErrHostNotAllowed)
}

func TestGuardBlocksPrivateAddresses(t *testing.T) {
	s := NewService(Options{RequestTimeout: time.Second, RequestsPerSec: 100})

	for _, target := range []string{
		"http://127.0.0.1/",
		"http://10.0.0.8/",
		"http://192.168.1.1/",
		"http://169.254.169.254/latest/meta-data",
		"http://0.0.0.0/",
		"http://[::1]/",
	} {
		t.Run(target, func(t *testing.T) {
			_, err := s.Check(context.Background(), target)
			assert.ErrorIs(t, err, ErrBlockedAddress)
		})
	}
}

func TestGuardBlocksPrivateResolution(t *testing.T) {
	s := NewService(Options{RequestTimeout: time.Second, RequestsPerSec: 100})
	s.resolve = func(ctx context.Context, host string) ([]net.IP, error) {
		return []net.IP{net.ParseIP("93.184.216.34"), net.ParseIP("10.1.2.3")}, nil
	}

	// One public and one private record: the private one blocks the check
	_, err := s.Check(context.Background(), "http://rebind.example.com/")
	assert.ErrorIs(t, err, ErrBlockedAddress)
}

func TestGuardUnresolvableHost(t *testing.T) {
	s := NewService(Options{RequestTimeout: time.Second, RequestsPerSec: 100})
	s.resolve = func(ctx context.Context, host string) ([]net.IP, error) {
		return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
	}

	_, err := s.Check(context.Background(), "http://does-not-exist.example/")
	assert.ErrorIs(t, err, ErrUnresolvableHost)
}

func TestRateLimiterPacesRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := newTestService(Options{})
	s.limiter.SetLimit(10)
	s.limiter.SetBurst(1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := s.Check(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	// 3 requests at 10 rps with burst 1 need at least ~200ms
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}
