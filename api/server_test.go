package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tilerate/core/tariff"
	"tilerate/internal/errors"
)

func testSnapshot() *tariff.Snapshot {
	return &tariff.Snapshot{
		Tariffs: tariff.Set{
			ESFreight: tariff.FreightTable{
				Bands: []tariff.Band{
					{MinKg: 0, MaxKg: 1000, FlatEUR: 180},
					{MinKg: 1001, MaxKg: 5000, EURPerKg: 0.14},
				},
				DefaultEURPerKg: 0.09,
			},
			ITFreight: tariff.FreightTable{
				Bands:           []tariff.Band{{MinKg: 0, MaxKg: 5000, EURPerKg: 0.19}},
				DefaultEURPerKg: 0.13,
			},
			Pallets: map[string]tariff.PalletSpec{
				"eu": {CostEUR: 10, WeightKg: 25},
			},
			GRExtras: tariff.GreeceExtras{CreteEURPerKg: 0.05},
		},
		Catalog: tariff.Catalog{
			Brands: map[string][]tariff.SlabSpec{
				"infinity": {{Thickness: 6, Dimensions: "160x320", SMPU: 5.12, WeightKg: 78, CrateMaxUnits: 10, AFrameMaxUnits: 22}},
			},
			Palette: []tariff.PaletteSpec{
				{Type: "crate", PricePerUnit: 85, WeightKg: 90},
				{Type: "a-frame", PricePerUnit: 110, WeightKg: 120},
			},
			PaletteShipping: tariff.PaletteShipping{FirstPaletteEUR: 220, AdditionalPaletteEUR: 120},
			CreteExtras:     map[string]float64{"crate": 150, "a-frame": 170},
		},
	}
}

func testServer() *Server {
	return NewServer("test", testSnapshot(), nil, 24.0)
}

func postJSON(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestQuoteEndpoint(t *testing.T) {
	w := postJSON(t, testServer(), "/v1/quote", `{
		"buy_price_eur_m2": 10,
		"qty_m2": 100,
		"pallets_count": 2,
		"pallet_type": "eu",
		"origin": "ES",
		"destination": "GR-mainland",
		"margin": 0.40,
		"transport_mode": "road"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result struct {
		Assumptions struct {
			KgPerM2 float64 `json:"kg_per_m2"`
		} `json:"assumptions"`
		Cost struct {
			Freight string `json:"freight"`
		} `json:"cost"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// kg_per_m2 omitted: the boundary default of 24 applies.
	if result.Assumptions.KgPerM2 != 24 {
		t.Errorf("kg_per_m2 = %g, want the 24 default", result.Assumptions.KgPerM2)
	}
	// 2450 kg at 0.14/kg.
	if result.Cost.Freight != "343" {
		t.Errorf("freight = %s, want 343", result.Cost.Freight)
	}
}

func TestQuoteEndpointValidationError(t *testing.T) {
	w := postJSON(t, testServer(), "/v1/quote", `{
		"buy_price_eur_m2": 10,
		"qty_m2": 100,
		"pallets_count": 2,
		"pallet_type": "eu",
		"origin": "ES",
		"destination": "GR-mainland",
		"margin": 1.0
	}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" || !strings.Contains(resp.Error.Message, "margin") {
		t.Errorf("error = %+v, want a specific margin validation message", resp.Error)
	}
}

func TestSlabsQuoteEndpoint(t *testing.T) {
	w := postJSON(t, testServer(), "/v1/quote/slabs", `{
		"brand": "infinity",
		"thickness": 6,
		"units": 15,
		"buy_price_eur_unit": 95,
		"pack": "auto",
		"destination": "GR-mainland",
		"margin": 0.40
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result struct {
		Packaging struct {
			Containers []struct {
				Type string `json:"container_type"`
			} `json:"containers"`
		} `json:"packaging"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Packaging.Containers) != 1 || result.Packaging.Containers[0].Type != "a-frame" {
		t.Errorf("packaging = %+v, want one a-frame", result.Packaging)
	}
	if result.Warnings == nil {
		t.Error("warnings must serialize as an array, not null")
	}
}

func TestEngineUnavailable(t *testing.T) {
	s := NewServer("test", nil, errors.Configf("parse tariff file extras.json"), 24.0)
	w := postJSON(t, s, "/v1/quote", `{}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error.Code != "ENGINE_UNAVAILABLE" {
		t.Errorf("error code = %s, want ENGINE_UNAVAILABLE", resp.Error.Code)
	}
}

func TestHealthReportsDegraded(t *testing.T) {
	s := NewServer("test", nil, errors.Configf("boom"), 24.0)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "degraded") {
		t.Errorf("body = %s, want degraded status", w.Body.String())
	}
}
