package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tilerate/core/freight"
	"tilerate/core/packaging"
	"tilerate/core/tariff"
	"tilerate/internal/errors"
)

// SlabsEngine prices slab shipments from raw unit counts: it resolves the
// slab spec, allocates units to containers, and builds the per-container
// cost ladder before the same margin back-solve as the general engine.
type SlabsEngine struct {
	snap *tariff.Snapshot
}

// NewSlabsEngine returns a slabs engine bound to an immutable snapshot.
func NewSlabsEngine(snap *tariff.Snapshot) *SlabsEngine {
	return &SlabsEngine{snap: snap}
}

// Calculate validates the request, resolves the slab spec and effective
// prices, allocates packaging, and assembles the cost ladder.
func (e *SlabsEngine) Calculate(req SlabsRequest) (*SlabsResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var warnings []string

	spec, warn, err := e.resolveSpec(req)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, warn...)

	smpu, warn := resolveArea(spec)
	warnings = append(warnings, warn...)

	priceM2, priceUnit, warn, err := resolvePrices(req, smpu)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, warn...)

	pref, _ := packaging.ParsePreference(string(req.Pack))
	breakdown, err := packaging.Allocate(req.Units, spec.CrateMaxUnits, spec.AFrameMaxUnits, pref)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, breakdown.Warnings...)

	// Handling and tare weight per container type actually used. A used type
	// missing from the palette config is a data problem, never a silent zero.
	handling := decimal.Zero
	kgContainers := 0.0
	for _, ct := range []packaging.ContainerType{packaging.Crate, packaging.AFrame} {
		count := breakdown.CountByType[ct]
		if count == 0 {
			continue
		}
		palette, ok := e.snap.Catalog.PaletteFor(string(ct))
		if !ok {
			return nil, errors.Configf("palette config missing container type %q", ct)
		}
		handling = handling.Add(decimal.NewFromFloat(palette.PricePerUnit).
			Mul(decimal.NewFromInt(int64(count))))
		kgContainers += float64(count) * palette.WeightKg
	}

	ship := e.snap.Catalog.PaletteShipping
	shipping := decimal.NewFromFloat(ship.FirstPaletteEUR)
	if extra := breakdown.Total() - 1; extra > 0 {
		shipping = shipping.Add(decimal.NewFromFloat(ship.AdditionalPaletteEUR).
			Mul(decimal.NewFromInt(int64(extra))))
	}

	kgSlabs := float64(req.Units) * spec.WeightKg
	kgTotal := kgSlabs + kgContainers

	// The slab business line ships exclusively on the Italian carrier.
	freightCharge := freight.Rate(kgTotal, e.snap.Tariffs.ITFreight)

	var extras extrasLadder
	if req.Destination == DestGRCrete {
		// Flat rate per container, keyed by container type. Structurally
		// different from the general engine's per-kg Crete surcharge.
		for _, ct := range []packaging.ContainerType{packaging.Crate, packaging.AFrame} {
			count := breakdown.CountByType[ct]
			if count == 0 {
				continue
			}
			rate, ok := e.snap.Catalog.CreteExtras[string(ct)]
			if !ok {
				return nil, errors.Configf("crete surcharge table missing container type %q", ct)
			}
			amount := decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(int64(count)))
			extras.charge("gr_crete_"+string(ct)+"_surcharge",
				fmt.Sprintf("Crete island surcharge (%s) x%d", ct, count), amount)
		}
	}

	goods := priceUnit.Mul(decimal.NewFromInt(int64(req.Units)))
	logistics := handling.Add(shipping).Add(freightCharge).Add(extras.total)
	totalCost := goods.Add(logistics)

	units := decimal.NewFromInt(int64(req.Units))
	costPerUnit := totalCost.Div(units)
	sellPerUnit, markup := backSolve(costPerUnit, req.Margin)

	var costPerM2, sellPerM2 *decimal.Decimal
	var specSMPU *float64
	if smpu > 0 {
		area := decimal.NewFromFloat(smpu).Mul(units)
		cm2 := roundMoney(totalCost.Div(area))
		s, _ := backSolve(totalCost.Div(area), req.Margin)
		sm2 := roundMoney(s)
		costPerM2 = &cm2
		sellPerM2 = &sm2
		specSMPU = &smpu
	}

	roundedHandling := roundMoney(handling)
	roundedShipping := roundMoney(shipping)
	roundedCostPerUnit := roundMoney(costPerUnit)
	roundedSellPerUnit := roundMoney(sellPerUnit)

	resolved := ResolvedSlab{
		Brand:           req.Brand,
		Thickness:       spec.Thickness,
		Dimensions:      spec.Dimensions,
		SMPU:            specSMPU,
		WeightKgPerUnit: spec.WeightKg,
		BuyPriceEURUnit: roundMoney(priceUnit),
	}
	if priceM2 != nil {
		pm2 := roundMoney(*priceM2)
		resolved.BuyPriceEURM2 = &pm2
	}

	if warnings == nil {
		warnings = []string{}
	}
	return &SlabsResult{
		Inputs:    req,
		Resolved:  resolved,
		Packaging: breakdown,
		Weights: WeightSummary{
			KgGoods:     roundKg(kgSlabs),
			KgPackaging: roundKg(kgContainers),
			KgTotal:     roundKg(kgTotal),
		},
		Cost: CostBreakdown{
			Goods:             roundMoney(goods),
			Handling:          &roundedHandling,
			ContainerShipping: &roundedShipping,
			Freight:           roundMoney(freightCharge),
			Extras:            roundMoney(extras.total),
			ExtrasBreakdown:   extras.items,
			PalletCost:        decimal.Zero,
			Logistics:         roundMoney(logistics),
			TotalCost:         roundMoney(totalCost),
			CostPerM2:         costPerM2,
			CostPerUnit:       &roundedCostPerUnit,
		},
		Pricing: PricingSummary{
			SellPricePerM2:   sellPerM2,
			SellPricePerUnit: &roundedSellPerUnit,
			Margin:           req.Margin,
			MarkupEquiv:      roundRatio(markup),
		},
		Warnings: warnings,
	}, nil
}

// resolveSpec finds the slab spec by brand and thickness, preferring an
// exact dimension match when the request supplies one.
func (e *SlabsEngine) resolveSpec(req SlabsRequest) (tariff.SlabSpec, []string, error) {
	specs, ok := e.snap.Catalog.BrandSpecs(req.Brand)
	if !ok {
		return tariff.SlabSpec{}, nil, errors.Validationf("unknown brand: %q", req.Brand)
	}

	var candidates []tariff.SlabSpec
	for _, s := range specs {
		if s.Thickness == req.Thickness {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return tariff.SlabSpec{}, nil,
			errors.Validationf("no slab spec for brand %q with thickness %g", req.Brand, req.Thickness)
	}

	if req.Dimensions != "" {
		for _, s := range candidates {
			if strings.EqualFold(s.Dimensions, req.Dimensions) {
				return s, nil, nil
			}
		}
		return candidates[0], []string{fmt.Sprintf(
			"no spec with dimensions %q for brand %q thickness %g, using %q",
			req.Dimensions, req.Brand, req.Thickness, candidates[0].Dimensions)}, nil
	}
	if len(candidates) > 1 {
		return candidates[0], []string{fmt.Sprintf(
			"multiple specs for brand %q thickness %g, using dimensions %q",
			req.Brand, req.Thickness, candidates[0].Dimensions)}, nil
	}
	return candidates[0], nil, nil
}

// resolveArea settles the area one unit covers, from the spec's smpu field
// or by parsing its dimension string. Zero means unknown; area-denominated
// outputs then become null instead of dividing by zero.
func resolveArea(spec tariff.SlabSpec) (float64, []string) {
	if spec.SMPU > 0 {
		return spec.SMPU, nil
	}
	if area, ok := parseDimensionArea(spec.Dimensions); ok {
		return area, nil
	}
	return 0, []string{fmt.Sprintf(
		"area per unit unknown for dimensions %q, per-m² figures unavailable", spec.Dimensions)}
}

// parseDimensionArea parses a WxH dimension string into square meters per
// unit. Values above 4 are read as centimeters, the catalog's usual unit.
func parseDimensionArea(dims string) (float64, bool) {
	parts := strings.FieldsFunc(strings.ToLower(dims), func(r rune) bool {
		return r == 'x' || r == '×'
	})
	if len(parts) != 2 {
		return 0, false
	}
	w, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	h, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, false
	}
	if w > 4 || h > 4 {
		return w * h / 10000, true
	}
	return w * h, true
}

// resolvePrices settles the effective purchase prices. The per-m² price is
// authoritative when present; the per-unit price is advisory in that case.
func resolvePrices(req SlabsRequest, smpu float64) (perM2 *decimal.Decimal, perUnit decimal.Decimal, warnings []string, err error) {
	hasM2 := req.BuyPriceEURM2 != nil && *req.BuyPriceEURM2 > 0
	hasUnit := req.BuyPriceEURUnit != nil && *req.BuyPriceEURUnit > 0

	if hasM2 {
		if hasUnit {
			warnings = append(warnings,
				"both buy_price_eur_m2 and buy_price_eur_unit given, per-m² price wins")
		}
		m2 := decimal.NewFromFloat(*req.BuyPriceEURM2)
		if smpu <= 0 {
			return nil, decimal.Zero, nil,
				errors.Validation("cannot derive a unit price from buy_price_eur_m2 without a known area per unit")
		}
		return &m2, m2.Mul(decimal.NewFromFloat(smpu)), warnings, nil
	}

	unit := decimal.NewFromFloat(*req.BuyPriceEURUnit)
	if smpu > 0 {
		m2 := unit.Div(decimal.NewFromFloat(smpu))
		return &m2, unit, warnings, nil
	}
	return nil, unit, warnings, nil
}
