// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anisafifi/databox/pkg/metrics"
)

// EvalMathHandler handles POST /api/v1/math/eval requests.
func (h *HandlerContext) EvalMathHandler(w http.ResponseWriter, r *http.Request) {
	var req MathEvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := h.Services.Math.Evaluate(r.Context(), req.Expr, req.Precision)
	if err != nil {
		metrics.RecordOperation(metrics.OpEvaluate, metrics.ServiceMath, metrics.StatusError, time.Since(start).Seconds())
		handleError(w, err)
		return
	}
	metrics.RecordOperation(metrics.OpEvaluate, metrics.ServiceMath, metrics.StatusSuccess, time.Since(start).Seconds())

	resp := MathEvalResponse{
		Expression: res.Expression,
		Result:     res.Result,
		Precision:  res.Precision,
	}
	writeJSON(w, resp, http.StatusOK)
}

// CheckSiteHandler handles POST /api/v1/sites/check requests.
func (h *HandlerContext) CheckSiteHandler(w http.ResponseWriter, r *http.Request) {
	var req SiteCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := h.Services.SiteCheck.Check(r.Context(), req.URL)
	if err != nil {
		metrics.RecordOperation(metrics.OpCheck, metrics.ServiceSiteCheck, metrics.StatusError, time.Since(start).Seconds())
		handleError(w, err)
		return
	}
	metrics.RecordOperation(metrics.OpCheck, metrics.ServiceSiteCheck, metrics.StatusSuccess, time.Since(start).Seconds())

	resp := SiteCheckResponse{
		URL:            res.URL,
		FinalURL:       res.FinalURL,
		StatusCode:     res.StatusCode,
		OK:             res.OK,
		ResponseTimeMs: res.ResponseTimeMs,
		Headers:        res.Headers,
		Redirected:     res.Redirected,
	}
	writeJSON(w, resp, http.StatusOK)
}

// LookupWordHandler handles GET /api/v1/dictionary/{word} requests.
func (h *HandlerContext) LookupWordHandler(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")

	start := time.Now()
	res, err := h.Services.Dictionary.Lookup(r.Context(), word)
	if err != nil {
		metrics.RecordOperation(metrics.OpLookup, metrics.ServiceDictionary, metrics.StatusError, time.Since(start).Seconds())
		handleError(w, err)
		return
	}
	metrics.RecordOperation(metrics.OpLookup, metrics.ServiceDictionary, metrics.StatusSuccess, time.Since(start).Seconds())

	resp := DictionaryResponse{
		Word:    res.Word,
		Found:   res.Found,
		Entries: res.Entries,
	}
	writeJSON(w, resp, http.StatusOK)
}

// VisitorIPHandler handles GET /api/v1/ip/visitor requests.
func (h *HandlerContext) VisitorIPHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	body, err := h.Services.IPInfo.Visitor(r.Context())
	if err != nil {
		metrics.RecordOperation(metrics.OpFetch, metrics.ServiceIPInfo, metrics.StatusError, time.Since(start).Seconds())
		handleError(w, err)
		return
	}
	metrics.RecordOperation(metrics.OpFetch, metrics.ServiceIPInfo, metrics.StatusSuccess, time.Since(start).Seconds())

	writeJSON(w, body, http.StatusOK)
}

// LookupIPHandler handles GET /api/v1/ip/{ip} requests.
func (h *HandlerContext) LookupIPHandler(w http.ResponseWriter, r *http.Request) {
	ip := chi.URLParam(r, "ip")

	start := time.Now()
	body, err := h.Services.IPInfo.Lookup(r.Context(), ip)
	if err != nil {
		metrics.RecordOperation(metrics.OpFetch, metrics.ServiceIPInfo, metrics.StatusError, time.Since(start).Seconds())
		handleError(w, err)
		return
	}
	metrics.RecordOperation(metrics.OpFetch, metrics.ServiceIPInfo, metrics.StatusSuccess, time.Since(start).Seconds())

	writeJSON(w, body, http.StatusOK)
}

// GetDataHandler handles GET /api/v1/data requests.
func (h *HandlerContext) GetDataHandler(w http.ResponseWriter, r *http.Request) {
	items := h.Services.Data.GetData(r.Context())

	out := make([]DataItemResponse, len(items))
	for i, item := range items {
		out[i] = DataItemResponse{
			Source:  item.Source,
			Payload: item.Payload,
		}
	}
	writeJSON(w, DataResponse{Items: out}, http.StatusOK)
}
