// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anisafifi/databox/internal/timezone"
	"github.com/anisafifi/databox/pkg/metrics"
)

// TimeNowHandler handles GET /api/v1/time/now requests. The tz query
// parameter selects the timezone; default UTC.
func (h *HandlerContext) TimeNowHandler(w http.ResponseWriter, r *http.Request) {
	tz := r.URL.Query().Get("tz")
	if tz == "" {
		tz = "UTC"
	}

	start := time.Now()
	now, ntp, err := h.Services.Time.Now(tz)
	if err != nil {
		metrics.RecordOperation(metrics.OpNow, metrics.ServiceTime, metrics.StatusError, time.Since(start).Seconds())
		handleError(w, err)
		return
	}
	metrics.RecordOperation(metrics.OpNow, metrics.ServiceTime, metrics.StatusSuccess, time.Since(start).Seconds())

	resp := TimeNowResponse{
		Datetime:      now.Format(time.RFC3339),
		Timezone:      tz,
		Unix:          now.Unix(),
		Server:        ntp.Server,
		OffsetSeconds: ntp.OffsetSeconds,
		LeapIndicator: ntp.LeapIndicator,
	}
	writeJSON(w, resp, http.StatusOK)
}

// TimeUTCHandler handles GET /api/v1/time/utc requests.
func (h *HandlerContext) TimeUTCHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	now, ntp, err := h.Services.Time.Now("UTC")
	if err != nil {
		metrics.RecordOperation(metrics.OpNow, metrics.ServiceTime, metrics.StatusError, time.Since(start).Seconds())
		handleError(w, err)
		return
	}
	metrics.RecordOperation(metrics.OpNow, metrics.ServiceTime, metrics.StatusSuccess, time.Since(start).Seconds())

	resp := TimeNowResponse{
		Datetime:      now.Format(time.RFC3339),
		Timezone:      "UTC",
		Unix:          now.Unix(),
		Server:        ntp.Server,
		OffsetSeconds: ntp.OffsetSeconds,
		LeapIndicator: ntp.LeapIndicator,
	}
	writeJSON(w, resp, http.StatusOK)
}

// TimeEpochHandler handles GET /api/v1/time/epoch requests.
func (h *HandlerContext) TimeEpochHandler(w http.ResponseWriter, r *http.Request) {
	ntp, err := h.Services.Time.QueryNTP()
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, TimeEpochResponse{
		Unix:   ntp.Time.Unix(),
		Server: ntp.Server,
	}, http.StatusOK)
}

// FormatTimeHandler handles GET /api/v1/time/format requests. Query
// parameters: timestamp (unix seconds, required), tz (default UTC), format
// (Go reference layout, default "2006-01-02 15:04:05").
func (h *HandlerContext) FormatTimeHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	timestamp, err := strconv.ParseInt(q.Get("timestamp"), 10, 64)
	if err != nil {
		writeErrorWithMessage(w, ErrInvalidRequest, "timestamp must be an integer", http.StatusBadRequest)
		return
	}
	tz := q.Get("tz")
	if tz == "" {
		tz = "UTC"
	}
	layout := q.Get("format")
	if layout == "" {
		layout = "2006-01-02 15:04:05"
	}

	formatted, err := h.Services.Time.Format(timestamp, tz, layout)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, TimeFormatResponse{
		Formatted: formatted,
		Timezone:  tz,
		Format:    layout,
	}, http.StatusOK)
}

// NTPStatusHandler handles GET /api/v1/time/ntp/status requests.
func (h *HandlerContext) NTPStatusHandler(w http.ResponseWriter, r *http.Request) {
	ntp, err := h.Services.Time.QueryNTP()
	if err != nil {
		handleError(w, err)
		return
	}

	resp := NTPStatusResponse{
		Server:        ntp.Server,
		Unix:          ntp.Time.Unix(),
		SystemUnix:    ntp.SystemTime.Unix(),
		OffsetSeconds: ntp.OffsetSeconds,
		LeapIndicator: ntp.LeapIndicator,
	}
	writeJSON(w, resp, http.StatusOK)
}

// LeapIndicatorHandler handles GET /api/v1/time/leap requests.
func (h *HandlerContext) LeapIndicatorHandler(w http.ResponseWriter, r *http.Request) {
	ntp, err := h.Services.Time.QueryNTP()
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, LeapIndicatorResponse{
		LeapIndicator: ntp.LeapIndicator,
		Server:        ntp.Server,
	}, http.StatusOK)
}

// WorldTimesHandler handles GET /api/v1/time/world requests. The zones
// query parameter is a comma-separated list of IANA names.
func (h *HandlerContext) WorldTimesHandler(w http.ResponseWriter, r *http.Request) {
	zonesParam := r.URL.Query().Get("zones")
	if zonesParam == "" {
		zonesParam = "UTC"
	}
	var zones []string
	for _, z := range strings.Split(zonesParam, ",") {
		if z = strings.TrimSpace(z); z != "" {
			zones = append(zones, z)
		}
	}

	times, err := h.Services.Time.WorldTimes(zones)
	if err != nil {
		handleError(w, err)
		return
	}

	entries := make([]WorldTimeEntry, len(times))
	for i, t := range times {
		entries[i] = WorldTimeEntry{
			Timezone:      t.Timezone,
			Datetime:      t.Datetime,
			Unix:          t.Unix,
			OffsetSeconds: t.OffsetSeconds,
		}
	}
	writeJSON(w, WorldTimesResponse{Times: entries}, http.StatusOK)
}

// ConvertTimeHandler handles POST /api/v1/time/convert requests.
func (h *HandlerContext) ConvertTimeHandler(w http.ResponseWriter, r *http.Request) {
	var req TimeConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}
	if req.From == "" {
		req.From = "UTC"
	}
	if req.To == "" {
		req.To = "UTC"
	}

	start := time.Now()
	parsed, converted, err := h.Services.Time.Convert(req.Datetime, req.From, req.To)
	if err != nil {
		metrics.RecordOperation(metrics.OpConvert, metrics.ServiceTime, metrics.StatusError, time.Since(start).Seconds())
		handleError(w, err)
		return
	}
	metrics.RecordOperation(metrics.OpConvert, metrics.ServiceTime, metrics.StatusSuccess, time.Since(start).Seconds())

	resp := TimeConvertResponse{
		Original:  parsed.Format(time.RFC3339),
		Converted: converted.Format(time.RFC3339),
		From:      req.From,
		To:        req.To,
	}
	writeJSON(w, resp, http.StatusOK)
}

// DiffTimeHandler handles POST /api/v1/time/diff requests.
func (h *HandlerContext) DiffTimeHandler(w http.ResponseWriter, r *http.Request) {
	var req TimeDiffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	diff, err := h.Services.Time.DiffBetween(req.Start, req.End)
	if err != nil {
		handleError(w, err)
		return
	}

	resp := TimeDiffResponse{
		Seconds: diff.Seconds,
		Days:    diff.Days,
		Hours:   diff.Hours,
		Minutes: diff.Minutes,
		Secs:    diff.Secs,
	}
	writeJSON(w, resp, http.StatusOK)
}

// ListTimezonesHandler handles GET /api/v1/timezones requests. Supported
// query parameters: search, abbreviation, dst, min_offset, max_offset,
// limit, offset.
func (h *HandlerContext) ListTimezonesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := timezone.Filter{
		Search:       q.Get("search"),
		Abbreviation: q.Get("abbreviation"),
	}
	if v, ok := queryInt(q.Get("dst")); ok {
		filter.DST = &v
	}
	if v, ok := queryInt(q.Get("min_offset")); ok {
		filter.MinOffset = &v
	}
	if v, ok := queryInt(q.Get("max_offset")); ok {
		filter.MaxOffset = &v
	}
	if v, ok := queryInt(q.Get("limit")); ok {
		filter.Limit = v
	}
	if v, ok := queryInt(q.Get("offset")); ok {
		filter.Offset = v
	}

	entries, err := h.Services.Timezone.List(filter)
	if err != nil {
		handleError(w, err)
		return
	}

	out := make([]TimezoneEntry, len(entries))
	for i, e := range entries {
		out[i] = TimezoneEntry{
			ZoneName:      e.ZoneName,
			Abbreviation:  e.Abbreviation,
			OffsetSeconds: e.OffsetSeconds,
			DST:           e.DST,
		}
	}
	writeJSON(w, ListTimezonesResponse{Timezones: out}, http.StatusOK)
}

// ListZoneNamesHandler handles GET /api/v1/timezones/zones requests.
func (h *HandlerContext) ListZoneNamesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, TimezoneNamesResponse{
		Zones: h.Services.Timezone.ZoneNames(),
	}, http.StatusOK)
}

// ListAbbreviationsHandler handles GET /api/v1/timezones/abbreviations
// requests.
func (h *HandlerContext) ListAbbreviationsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, TimezoneAbbreviationsResponse{
		Abbreviations: h.Services.Timezone.Abbreviations(),
	}, http.StatusOK)
}

// ListOffsetsHandler handles GET /api/v1/timezones/offsets requests.
func (h *HandlerContext) ListOffsetsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, TimezoneOffsetsResponse{
		Offsets: h.Services.Timezone.Offsets(),
	}, http.StatusOK)
}

// GetTimezoneHandler handles GET /api/v1/timezones/* requests. The zone
// name is the trailing path since IANA names contain slashes.
func (h *HandlerContext) GetTimezoneHandler(w http.ResponseWriter, r *http.Request) {
	zone := chi.URLParam(r, "*")
	if zone == "" {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	entry, err := h.Services.Timezone.Get(zone)
	if err != nil {
		handleError(w, err)
		return
	}

	resp := TimezoneEntry{
		ZoneName:      entry.ZoneName,
		Abbreviation:  entry.Abbreviation,
		OffsetSeconds: entry.OffsetSeconds,
		DST:           entry.DST,
	}
	writeJSON(w, resp, http.StatusOK)
}

func queryInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
