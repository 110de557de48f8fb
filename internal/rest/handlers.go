// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package rest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/anisafifi/databox/internal/datastore"
	"github.com/anisafifi/databox/internal/dictionary"
	"github.com/anisafifi/databox/internal/ipinfo"
	"github.com/anisafifi/databox/internal/mathexpr"
	"github.com/anisafifi/databox/internal/password"
	"github.com/anisafifi/databox/internal/sitecheck"
	"github.com/anisafifi/databox/internal/timeservice"
	"github.com/anisafifi/databox/internal/timezone"
	"github.com/anisafifi/databox/pkg/health"
	"github.com/anisafifi/databox/pkg/metrics"
	"github.com/anisafifi/databox/pkg/secretsharing"
)

// Services bundles the domain services the handlers dispatch to.
type Services struct {
	Password   *password.Service
	Time       *timeservice.Service
	Timezone   *timezone.Service
	Math       *mathexpr.Service
	SiteCheck  *sitecheck.Service
	Dictionary *dictionary.Service
	IPInfo     *ipinfo.Service
	Data       *datastore.Service
}

// HandlerContext holds dependencies for REST handlers.
type HandlerContext struct {
	// Version is the API version
	Version string
	// Services are the domain services
	Services Services
	// HealthChecker manages health check probes
	HealthChecker HealthChecker
}

// HealthChecker defines the interface for health checking.
type HealthChecker interface {
	Live(ctx context.Context) health.CheckResult
	Ready(ctx context.Context) []health.CheckResult
	Startup(ctx context.Context) health.CheckResult
}

// NewHandlerContext creates a new handler context.
func NewHandlerContext(services Services, version string) *HandlerContext {
	return &HandlerContext{
		Version:  version,
		Services: services,
	}
}

// SetHealthChecker sets the health checker for the handler context.
func (h *HandlerContext) SetHealthChecker(checker HealthChecker) {
	h.HealthChecker = checker
}

// HealthHandler handles GET /health requests.
func (h *HandlerContext) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "healthy",
		Version: h.Version,
	}
	writeJSON(w, resp, http.StatusOK)
}

// SplitSecretHandler handles POST /api/v1/secrets/split requests.
func (h *HandlerContext) SplitSecretHandler(w http.ResponseWriter, r *http.Request) {
	var req SplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	secret, err := decodeSecret(req.Secret, req.Encoding)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	start := time.Now()
	shares, err := secretsharing.Split(secret, req.Shares, req.Threshold)
	if err != nil {
		metrics.RecordOperation(metrics.OpSplit, metrics.ServiceSecrets, metrics.StatusError, time.Since(start).Seconds())
		handleError(w, err)
		return
	}
	metrics.RecordOperation(metrics.OpSplit, metrics.ServiceSecrets, metrics.StatusSuccess, time.Since(start).Seconds())

	resp := SplitResponse{
		Shares:    shares,
		Count:     len(shares),
		Threshold: req.Threshold,
	}
	writeJSON(w, resp, http.StatusOK)
}

// CombineSecretHandler handles POST /api/v1/secrets/combine requests.
//
// The reconstructed secret is returned as UTF-8 text when it decodes
// cleanly, otherwise base64; the encoding field tells the caller which.
func (h *HandlerContext) CombineSecretHandler(w http.ResponseWriter, r *http.Request) {
	var req CombineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	start := time.Now()
	secret, err := secretsharing.Combine(req.Shares)
	if err != nil {
		metrics.RecordOperation(metrics.OpCombine, metrics.ServiceSecrets, metrics.StatusError, time.Since(start).Seconds())
		handleError(w, err)
		return
	}
	metrics.RecordOperation(metrics.OpCombine, metrics.ServiceSecrets, metrics.StatusSuccess, time.Since(start).Seconds())

	resp := CombineResponse{}
	if utf8.Valid(secret) {
		resp.Secret = string(secret)
		resp.Encoding = "utf-8"
	} else {
		resp.Secret = base64.StdEncoding.EncodeToString(secret)
		resp.Encoding = "base64"
	}
	writeJSON(w, resp, http.StatusOK)
}

// decodeSecret interprets the request secret per its declared encoding.
func decodeSecret(secret, encoding string) ([]byte, error) {
	switch encoding {
	case "", "utf-8":
		return []byte(secret), nil
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(secret)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return decoded, nil
	default:
		return nil, ErrInvalidEncoding
	}
}

// GeneratePasswordHandler handles POST /api/v1/passwords requests.
func (h *HandlerContext) GeneratePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := h.Services.Password.Generate(password.Options{
		Preset:           req.Preset,
		Length:           req.Length,
		Lowercase:        req.Lowercase,
		Uppercase:        req.Uppercase,
		Digits:           req.Digits,
		Symbols:          req.Symbols,
		ExcludeAmbiguous: req.ExcludeAmbiguous,
		ExcludeSimilar:   req.ExcludeSimilar,
		NoRepeats:        req.NoRepeats,
		MinLowercase:     req.MinLowercase,
		MinUppercase:     req.MinUppercase,
		MinDigits:        req.MinDigits,
		MinSymbols:       req.MinSymbols,
	})
	if err != nil {
		metrics.RecordOperation(metrics.OpGenerate, metrics.ServicePassword, metrics.StatusError, time.Since(start).Seconds())
		handleError(w, err)
		return
	}
	metrics.RecordOperation(metrics.OpGenerate, metrics.ServicePassword, metrics.StatusSuccess, time.Since(start).Seconds())

	resp := PasswordResponse{
		Password:  res.Password,
		Length:    res.Length,
		Lowercase: res.Lowercase,
		Uppercase: res.Uppercase,
		Digits:    res.Digits,
		Symbols:   res.Symbols,
	}
	writeJSON(w, resp, http.StatusOK)
}

// GeneratePassphraseHandler handles POST /api/v1/passphrases requests.
func (h *HandlerContext) GeneratePassphraseHandler(w http.ResponseWriter, r *http.Request) {
	var req PassphraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := h.Services.Password.GeneratePassphrase(password.PassphraseOptions{
		Words:         req.Words,
		Separator:     req.Separator,
		Capitalize:    req.Capitalize,
		IncludeNumber: req.IncludeNumber,
		IncludeSymbol: req.IncludeSymbol,
	})
	if err != nil {
		metrics.RecordOperation(metrics.OpPassphrase, metrics.ServicePassword, metrics.StatusError, time.Since(start).Seconds())
		handleError(w, err)
		return
	}
	metrics.RecordOperation(metrics.OpPassphrase, metrics.ServicePassword, metrics.StatusSuccess, time.Since(start).Seconds())

	resp := PassphraseResponse{
		Passphrase:    res.Passphrase,
		Words:         res.Words,
		Separator:     res.Separator,
		Capitalize:    res.Capitalize,
		IncludeNumber: res.IncludeNumber,
		IncludeSymbol: res.IncludeSymbol,
	}
	writeJSON(w, resp, http.StatusOK)
}
