package pricing

import (
	"strings"
	"testing"

	"tilerate/core/packaging"
	"tilerate/core/tariff"
	"tilerate/internal/errors"
)

func baseSlabsRequest() SlabsRequest {
	unitPrice := 95.0
	return SlabsRequest{
		Brand:           "infinity",
		Thickness:       6,
		Units:           15,
		BuyPriceEURUnit: &unitPrice,
		Pack:            packaging.PreferAuto,
		Destination:     DestGRMainland,
		Margin:          0.40,
	}
}

func TestSlabsCalculateSingleAFrame(t *testing.T) {
	engine := NewSlabsEngine(testSnapshot())
	result, err := engine.Calculate(baseSlabsRequest())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	// 15 units exceed the 10-unit crate but fit one 22-unit a-frame.
	if result.Packaging.Total() != 1 || result.Packaging.CountByType[packaging.AFrame] != 1 {
		t.Fatalf("packaging = %+v, want a single a-frame", result.Packaging.Containers)
	}
	if !result.Cost.Handling.Equal(mustDecimal("110")) {
		t.Errorf("handling = %s, want 110", result.Cost.Handling)
	}
	if !result.Cost.ContainerShipping.Equal(mustDecimal("220")) {
		t.Errorf("container_shipping = %s, want 220 (first container only)", result.Cost.ContainerShipping)
	}
	// 15 x 78 kg slabs + 120 kg a-frame = 1290 kg on the IT table at 0.19/kg.
	if result.Weights.KgTotal != 1290 {
		t.Errorf("kg_total = %g, want 1290", result.Weights.KgTotal)
	}
	if !result.Cost.Freight.Equal(mustDecimal("245.1")) {
		t.Errorf("freight = %s, want 245.1", result.Cost.Freight)
	}
	// goods 15 x 95 = 1425; total = 1425 + 110 + 220 + 245.1 = 2000.1
	if !result.Cost.TotalCost.Equal(mustDecimal("2000.1")) {
		t.Errorf("total_cost = %s, want 2000.1", result.Cost.TotalCost)
	}
	if !result.Cost.CostPerUnit.Equal(mustDecimal("133.34")) {
		t.Errorf("cost_per_unit = %s, want 133.34", result.Cost.CostPerUnit)
	}
	// Area: 15 x 5.12 = 76.8 m²; 2000.1 / 76.8 = 26.0429... -> 26.04
	if !result.Cost.CostPerM2.Equal(mustDecimal("26.04")) {
		t.Errorf("cost_per_m2 = %s, want 26.04", result.Cost.CostPerM2)
	}
	// Sell per m²: (2000.1 / 76.8) / 0.6 = 43.4049... -> 43.40
	if !result.Pricing.SellPricePerM2.Equal(mustDecimal("43.4")) {
		t.Errorf("sell_price_per_m2 = %s, want 43.40", result.Pricing.SellPricePerM2)
	}
	if !result.Pricing.MarkupEquiv.Equal(mustDecimal("0.6667")) {
		t.Errorf("markup_equiv = %s, want 0.6667", result.Pricing.MarkupEquiv)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", result.Warnings)
	}
}

func TestSlabsCalculateCreteFlatPerContainerType(t *testing.T) {
	engine := NewSlabsEngine(testSnapshot())
	req := baseSlabsRequest()
	// 52 units: two full 22-unit a-frames plus an 8-unit crate remainder.
	req.Units = 52
	req.Destination = DestGRCrete
	result, err := engine.Calculate(req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if result.Packaging.CountByType[packaging.AFrame] != 2 || result.Packaging.CountByType[packaging.Crate] != 1 {
		t.Fatalf("packaging = %+v, want 2 a-frames and 1 crate", result.Packaging.CountByType)
	}
	// Flat rate per container type: 1 crate x 150 + 2 a-frames x 170 = 490.
	if !result.Cost.Extras.Equal(mustDecimal("490")) {
		t.Errorf("extras = %s, want 490", result.Cost.Extras)
	}
	if len(result.Cost.ExtrasBreakdown) != 2 {
		t.Fatalf("extras breakdown = %+v, want one line per container type", result.Cost.ExtrasBreakdown)
	}
	// 3 containers: first at 220, two more at 120.
	if !result.Cost.ContainerShipping.Equal(mustDecimal("460")) {
		t.Errorf("container_shipping = %s, want 460", result.Cost.ContainerShipping)
	}
}

func TestSlabsCalculateNoAFrameCapacity(t *testing.T) {
	engine := NewSlabsEngine(testSnapshot())
	unitPrice := 80.0
	req := SlabsRequest{
		Brand:           "aurora",
		Thickness:       6,
		Units:           15,
		BuyPriceEURUnit: &unitPrice,
		Pack:            packaging.PreferAuto,
		Destination:     DestGRMainland,
		Margin:          0.35,
	}
	result, err := engine.Calculate(req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	// Crate holds 10 and the a-frame capacity is invalid: the allocation
	// must still cover all 15 units, in crates only.
	if result.Packaging.Units() != 15 || result.Packaging.CountByType[packaging.Crate] != 2 {
		t.Fatalf("packaging = %+v, want 2 crates holding 15 units", result.Packaging.Containers)
	}

	req.Pack = packaging.PreferAFrame
	result, err = engine.Calculate(req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.Packaging.CountByType[packaging.Crate] != 2 {
		t.Fatalf("packaging = %+v, want crate fallback", result.Packaging.CountByType)
	}
	if !hasWarning(result.Warnings, "a-frame capacity unavailable") {
		t.Errorf("warnings = %v, want an a-frame-unavailable warning", result.Warnings)
	}
}

func TestSlabsCalculateAreaFromDimensions(t *testing.T) {
	engine := NewSlabsEngine(testSnapshot())
	unitPrice := 80.0
	req := SlabsRequest{
		Brand:           "aurora", // no smpu; dimensions 100x100 cm = 1 m²
		Thickness:       6,
		Units:           10,
		BuyPriceEURUnit: &unitPrice,
		Destination:     DestGRMainland,
		Margin:          0.40,
	}
	result, err := engine.Calculate(req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.Resolved.SMPU == nil || *result.Resolved.SMPU != 1.0 {
		t.Fatalf("smpu = %v, want 1.0 parsed from dimensions", result.Resolved.SMPU)
	}
	if result.Cost.CostPerM2 == nil {
		t.Error("cost_per_m2 missing despite parseable dimensions")
	}
}

func TestSlabsCalculateUnknownArea(t *testing.T) {
	engine := NewSlabsEngine(testSnapshot())
	unitPrice := 70.0
	req := SlabsRequest{
		Brand:           "rawcut", // no smpu, dimensions unparsable
		Thickness:       8,
		Units:           5,
		BuyPriceEURUnit: &unitPrice,
		Destination:     DestGRMainland,
		Margin:          0.30,
	}
	result, err := engine.Calculate(req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !hasWarning(result.Warnings, "area per unit unknown") {
		t.Errorf("warnings = %v, want an unknown-area warning", result.Warnings)
	}
	// Area-denominated figures are null, never a divide-by-zero.
	if result.Cost.CostPerM2 != nil || result.Pricing.SellPricePerM2 != nil {
		t.Error("per-m² figures should be null when area is unknown")
	}
	if result.Cost.CostPerUnit == nil || result.Pricing.SellPricePerUnit == nil {
		t.Error("per-unit figures must still be present")
	}
}

func TestSlabsCalculateUnknownAreaRejectsM2PriceOnly(t *testing.T) {
	engine := NewSlabsEngine(testSnapshot())
	m2Price := 20.0
	req := SlabsRequest{
		Brand:         "rawcut",
		Thickness:     8,
		Units:         5,
		BuyPriceEURM2: &m2Price,
		Destination:   DestGRMainland,
		Margin:        0.30,
	}
	_, err := engine.Calculate(req)
	if !errors.IsType(err, errors.TypeValidation) {
		t.Errorf("got %v, want validation error (unit price underivable)", err)
	}
}

func TestSlabsCalculatePricePrecedence(t *testing.T) {
	engine := NewSlabsEngine(testSnapshot())
	m2Price := 20.0
	unitPrice := 999.0 // advisory only, must lose to the per-m² price
	req := baseSlabsRequest()
	req.BuyPriceEURM2 = &m2Price
	req.BuyPriceEURUnit = &unitPrice
	result, err := engine.Calculate(req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	// Effective unit price derives from the per-m² price: 20 x 5.12 = 102.40.
	if !result.Resolved.BuyPriceEURUnit.Equal(mustDecimal("102.4")) {
		t.Errorf("unit price = %s, want 102.40 derived from m² price", result.Resolved.BuyPriceEURUnit)
	}
	if !hasWarning(result.Warnings, "per-m² price wins") {
		t.Errorf("warnings = %v, want a price-precedence warning", result.Warnings)
	}
}

func TestSlabsCalculateDimensionDisambiguation(t *testing.T) {
	engine := NewSlabsEngine(testSnapshot())
	req := baseSlabsRequest()
	req.Dimensions = "160x320"
	result, err := engine.Calculate(req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.Resolved.Dimensions != "160x320" {
		t.Errorf("dimensions = %q, want exact match", result.Resolved.Dimensions)
	}

	req.Dimensions = "120x240"
	result, err = engine.Calculate(req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !hasWarning(result.Warnings, "no spec with dimensions") {
		t.Errorf("warnings = %v, want a dimension-fallback warning", result.Warnings)
	}
}

func TestSlabsCalculateMissingPaletteConfigIsFatal(t *testing.T) {
	snap := testSnapshot()
	snap.Catalog.Palette = []tariff.PaletteSpec{
		{Type: "crate", PricePerUnit: 85, WeightKg: 90},
		// a-frame deliberately missing
	}
	engine := NewSlabsEngine(snap)
	_, err := engine.Calculate(baseSlabsRequest()) // allocates one a-frame
	if !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("got %v, want config error, never a silent zero", err)
	}
}

func TestSlabsCalculateValidation(t *testing.T) {
	engine := NewSlabsEngine(testSnapshot())
	tests := []struct {
		name   string
		mutate func(*SlabsRequest)
	}{
		{"empty brand", func(r *SlabsRequest) { r.Brand = "" }},
		{"unknown brand", func(r *SlabsRequest) { r.Brand = "nonesuch" }},
		{"unknown thickness", func(r *SlabsRequest) { r.Thickness = 99 }},
		{"zero units", func(r *SlabsRequest) { r.Units = 0 }},
		{"negative units", func(r *SlabsRequest) { r.Units = -3 }},
		{"margin zero", func(r *SlabsRequest) { r.Margin = 0 }},
		{"margin one", func(r *SlabsRequest) { r.Margin = 1 }},
		{"no price", func(r *SlabsRequest) { r.BuyPriceEURM2, r.BuyPriceEURUnit = nil, nil }},
		{"bad destination", func(r *SlabsRequest) { r.Destination = "GR-corfu" }},
		{"bad preference", func(r *SlabsRequest) { r.Pack = "pallet" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseSlabsRequest()
			tt.mutate(&req)
			_, err := engine.Calculate(req)
			if !errors.IsType(err, errors.TypeValidation) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
