// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

// Package rest implements the databox HTTP API.
//
// The API is served by a chi router with a middleware chain of panic
// recovery, correlation-ID propagation, request logging, Prometheus
// metrics, and CORS. All payloads are JSON.
//
// # Endpoints
//
// Health and observability:
//
//	GET  /health            basic health check
//	GET  /health/live       Kubernetes liveness probe
//	GET  /health/ready      Kubernetes readiness probe
//	GET  /health/startup    Kubernetes startup probe
//	GET  /metrics           Prometheus metrics (when enabled)
//
// API v1:
//
//	POST /api/v1/secrets/split      split a secret into threshold shares
//	POST /api/v1/secrets/combine    reconstruct a secret from shares
//	POST /api/v1/passwords          generate a random password
//	POST /api/v1/passphrases        generate a word-based passphrase
//	GET  /api/v1/time/now           current NTP-sourced time
//	GET  /api/v1/time/utc           current NTP-sourced time in UTC
//	GET  /api/v1/time/epoch         current NTP-sourced unix timestamp
//	GET  /api/v1/time/world         current time across multiple zones
//	GET  /api/v1/time/format        format a unix timestamp in a zone
//	GET  /api/v1/time/ntp/status    raw NTP query result
//	GET  /api/v1/time/leap          NTP leap indicator
//	POST /api/v1/time/convert       convert a datetime between timezones
//	POST /api/v1/time/diff          difference between two datetimes
//	GET  /api/v1/timezones                  list/filter the timezone catalog
//	GET  /api/v1/timezones/zones            all zone names
//	GET  /api/v1/timezones/abbreviations    distinct abbreviations
//	GET  /api/v1/timezones/offsets          distinct UTC offsets
//	GET  /api/v1/timezones/{zone}           one timezone's current entry
//	POST /api/v1/math/eval          evaluate a math expression
//	POST /api/v1/sites/check        probe an external site
//	GET  /api/v1/dictionary/{word}  dictionary lookup
//	GET  /api/v1/ip/visitor         caller's public IP details
//	GET  /api/v1/ip/{ip}            IP address details
//	GET  /api/v1/data               aggregated data feed
//
// # Errors
//
// Errors are returned as JSON objects with error, optional message, and
// code fields. Client-input failures map to 400, policy rejections
// (site check allowlist, blocked addresses) to 403, upstream failures
// to 502, and internal failures to 500.
package rest
