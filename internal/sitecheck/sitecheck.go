// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

// Package sitecheck probes the availability of external web sites.
//
// Every target URL passes an SSRF guard before any request is made: only
// http and https schemes are accepted, an optional host allowlist is
// enforced, and the host must not resolve to a private, loopback,
// link-local, multicast, or otherwise non-routable address. Outbound
// requests are paced with a token-bucket rate limiter.
//
// A check issues a HEAD request first and falls back to GET when the
// server rejects HEAD with 403 or 405. Response headers are filtered
// against an allowlist before being returned.
package sitecheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var (
	// ErrInvalidScheme is returned when the URL scheme is not http or https.
	ErrInvalidScheme = errors.New("url must start with http or https")

	// ErrMissingHost is returned when the URL has no host component.
	ErrMissingHost = errors.New("url must include a host")

	// ErrHostNotAllowed is returned when an allowlist is configured and the
	// host does not match it.
	ErrHostNotAllowed = errors.New("host is not in allowlist")

	// ErrUnresolvableHost is returned when DNS resolution fails.
	ErrUnresolvableHost = errors.New("unable to resolve host")

	// ErrBlockedAddress is returned when the host resolves to a private or
	// otherwise non-routable address.
	ErrBlockedAddress = errors.New("host resolves to a blocked address")

	// ErrRequestFailed is returned when the HTTP request itself fails.
	ErrRequestFailed = errors.New("request failed")
)

// default response headers exposed to callers
var defaultHeaderAllowlist = []string{
	"content-type",
	"content-length",
	"server",
	"date",
	"cache-control",
	"location",
}

// CheckResult describes the outcome of one site check.
type CheckResult struct {
	URL            string
	FinalURL       string
	StatusCode     int
	OK             bool
	ResponseTimeMs float64
	Headers        map[string]string
	Redirected     bool
}

// resolver abstracts DNS lookups for testing.
type resolver func(ctx context.Context, host string) ([]net.IP, error)

func lookupIPs(ctx context.Context, host string) ([]net.IP, error) {
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	ips := make([]net.IP, len(addrs))
	for i, a := range addrs {
		ips[i] = a.IP
	}
	return ips, nil
}

// Options configures a Service.
type Options struct {
	AllowedHosts    []string
	RequestTimeout  time.Duration
	UserAgent       string
	RequestsPerSec  float64
	BurstSize       int
	HeaderAllowlist []string

	// AllowPrivateIPs disables the resolved-address guard. Tests only.
	AllowPrivateIPs bool
}

// Service checks site availability with SSRF protection and outbound
// rate limiting.
type Service struct {
	allowedHosts    []string
	userAgent       string
	headerAllowlist map[string]bool
	allowPrivateIPs bool
	limiter         *rate.Limiter
	client          *http.Client
	resolve         resolver
}

// NewService creates a site checker.
func NewService(opts Options) *Service {
	allowed := make([]string, 0, len(opts.AllowedHosts))
	for _, h := range opts.AllowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allowed = append(allowed, h)
		}
	}

	headerList := opts.HeaderAllowlist
	if headerList == nil {
		headerList = defaultHeaderAllowlist
	}
	headers := make(map[string]bool, len(headerList))
	for _, h := range headerList {
		headers[strings.ToLower(h)] = true
	}

	burst := opts.BurstSize
	if burst < 1 {
		burst = 1
	}

	return &Service{
		allowedHosts:    allowed,
		userAgent:       opts.UserAgent,
		headerAllowlist: headers,
		allowPrivateIPs: opts.AllowPrivateIPs,
		limiter:         rate.NewLimiter(rate.Limit(opts.RequestsPerSec), burst),
		client: &http.Client{
			Timeout: opts.RequestTimeout,
		},
		resolve: lookupIPs,
	}
}

// Check validates, guards, and probes the given URL.
func (s *Service) Check(ctx context.Context, rawURL string) (*CheckResult, error) {
	parsed, err := s.validateURL(rawURL)
	if err != nil {
		return nil, err
	}
	if err := s.guardAddress(ctx, parsed.Hostname()); err != nil {
		return nil, err
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.request(ctx, http.MethodHead, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusMethodNotAllowed {
		_ = resp.Body.Close()
		resp, err = s.request(ctx, http.MethodGet, rawURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
	}
	defer func() { _ = resp.Body.Close() }()

	elapsed := time.Since(start)
	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &CheckResult{
		URL:            rawURL,
		FinalURL:       finalURL,
		StatusCode:     resp.StatusCode,
		OK:             resp.StatusCode < 400,
		ResponseTimeMs: float64(elapsed.Microseconds()) / 1000,
		Headers:        s.filterHeaders(resp.Header),
		Redirected:     finalURL != rawURL,
	}, nil
}

func (s *Service) validateURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScheme, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, ErrInvalidScheme
	}
	host := parsed.Hostname()
	if host == "" {
		return nil, ErrMissingHost
	}
	if len(s.allowedHosts) > 0 {
		host = strings.ToLower(host)
		allowed := false
		for _, domain := range s.allowedHosts {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, ErrHostNotAllowed
		}
	}
	return parsed, nil
}

// guardAddress rejects hosts that resolve to any non-routable address.
func (s *Service) guardAddress(ctx context.Context, host string) error {
	if s.allowPrivateIPs {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil {
		if isBlockedIP(ip) {
			return ErrBlockedAddress
		}
		return nil
	}
	ips, err := s.resolve(ctx, host)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnresolvableHost, err)
	}
	for _, ip := range ips {
		if isBlockedIP(ip) {
			return ErrBlockedAddress
		}
	}
	return nil
}

func isBlockedIP(ip net.IP) bool {
	return ip.IsPrivate() ||
		ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified()
}

func (s *Service) request(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	return s.client.Do(req)
}

func (s *Service) filterHeaders(h http.Header) map[string]string {
	out := make(map[string]string)
	for key, values := range h {
		if s.headerAllowlist[strings.ToLower(key)] && len(values) > 0 {
			out[key] = values[0]
		}
	}
	return out
}
