// Package api - Thin, deterministic API layer for the rating engines.
// The API is ONLY responsible for: input ingestion, engine orchestration,
// output serialization. The API NEVER performs cost logic.
package api

import (
	"tilerate/core/pricing"
)

// QuoteRequest is the input to POST /v1/quote. It mirrors the engine request
// but keeps boundary-only defaults optional: a missing kg_per_m2 takes the
// configured assumption, a missing include_pallet_cost defaults to true.
type QuoteRequest struct {
	pricing.Request
	KgPerM2           *float64 `json:"kg_per_m2"`
	IncludePalletCost *bool    `json:"include_pallet_cost"`
}

// Resolve applies the boundary defaults and returns the explicit engine
// request.
func (q *QuoteRequest) Resolve(defaultKgPerM2 float64) pricing.Request {
	req := q.Request
	req.KgPerM2 = defaultKgPerM2
	if q.KgPerM2 != nil {
		req.KgPerM2 = *q.KgPerM2
	}
	req.IncludePalletCost = true
	if q.IncludePalletCost != nil {
		req.IncludePalletCost = *q.IncludePalletCost
	}
	return req
}

// SlabsQuoteRequest is the input to POST /v1/quote/slabs. The engine request
// already treats every optional field as optional, so it binds directly.
type SlabsQuoteRequest = pricing.SlabsRequest

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail provides error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
