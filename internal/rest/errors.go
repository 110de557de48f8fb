// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/anisafifi/databox/internal/dictionary"
	"github.com/anisafifi/databox/internal/ipinfo"
	"github.com/anisafifi/databox/internal/mathexpr"
	"github.com/anisafifi/databox/internal/password"
	"github.com/anisafifi/databox/internal/sitecheck"
	"github.com/anisafifi/databox/internal/timeservice"
	"github.com/anisafifi/databox/internal/timezone"
	"github.com/anisafifi/databox/pkg/secretsharing"
)

// Common errors
var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidEncoding = errors.New("encoding must be utf-8 or base64")
	ErrInternalError   = errors.New("internal server error")
)

// writeError writes an error response to the client.
func writeError(w http.ResponseWriter, err error, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error: err.Error(),
		Code:  statusCode,
	}

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		log.Printf("Failed to encode error response: %v", encErr)
	}
}

// writeErrorWithMessage writes an error response with a custom message.
func writeErrorWithMessage(w http.ResponseWriter, err error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:   err.Error(),
		Message: message,
		Code:    statusCode,
	}

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		log.Printf("Failed to encode error response: %v", encErr)
	}
}

// mapErrorToStatusCode maps service errors to HTTP status codes.
// Client-input failures map to 400; upstream and arithmetic failures are
// server-side.
func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidEncoding),
		errors.Is(err, secretsharing.ErrInvalidThreshold),
		errors.Is(err, secretsharing.ErrInsufficientShares),
		errors.Is(err, secretsharing.ErrParameterOutOfRange),
		errors.Is(err, secretsharing.ErrEmptySecret),
		errors.Is(err, secretsharing.ErrInvalidShare),
		errors.Is(err, secretsharing.ErrInconsistentShareLength),
		errors.Is(err, password.ErrUnknownPreset),
		errors.Is(err, password.ErrInvalidLength),
		errors.Is(err, password.ErrNoCharacterSets),
		errors.Is(err, password.ErrNegativeMinimum),
		errors.Is(err, password.ErrMinimumsExceedLength),
		errors.Is(err, password.ErrEmptyPool),
		errors.Is(err, password.ErrNoRepeatsUnsatisfiable),
		errors.Is(err, password.ErrInvalidWords),
		errors.Is(err, password.ErrEmptySeparator),
		errors.Is(err, timeservice.ErrUnknownTimezone),
		errors.Is(err, timeservice.ErrInvalidDatetime),
		errors.Is(err, timezone.ErrUnknownZone),
		errors.Is(err, mathexpr.ErrEmptyExpression),
		errors.Is(err, mathexpr.ErrExpressionTooLong),
		errors.Is(err, mathexpr.ErrInvalidExpression),
		errors.Is(err, mathexpr.ErrInvalidPrecision),
		errors.Is(err, sitecheck.ErrInvalidScheme),
		errors.Is(err, sitecheck.ErrMissingHost),
		errors.Is(err, sitecheck.ErrUnresolvableHost),
		errors.Is(err, dictionary.ErrEmptyWord),
		errors.Is(err, ipinfo.ErrInvalidIP):
		return http.StatusBadRequest
	case errors.Is(err, sitecheck.ErrHostNotAllowed),
		errors.Is(err, sitecheck.ErrBlockedAddress):
		return http.StatusForbidden
	case errors.Is(err, mathexpr.ErrTimeout):
		return http.StatusRequestTimeout
	case errors.Is(err, timeservice.ErrAllServersFailed),
		errors.Is(err, sitecheck.ErrRequestFailed),
		errors.Is(err, dictionary.ErrUpstream),
		errors.Is(err, ipinfo.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, ipinfo.ErrNoToken):
		return http.StatusServiceUnavailable
	default:
		// secretsharing.ErrDivisionByZero and anything unrecognized
		return http.StatusInternalServerError
	}
}

// handleError maps the error to a status code and writes the response.
func handleError(w http.ResponseWriter, err error) {
	writeError(w, err, mapErrorToStatusCode(err))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}
