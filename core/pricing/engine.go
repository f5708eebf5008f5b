// Package pricing assembles shipment cost ladders and back-solves retail
// sell prices against a target gross margin. Both engines are pure functions
// of (request, tariff snapshot): no I/O, no shared mutable state, safe for
// concurrent callers by construction.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tilerate/core/freight"
	"tilerate/core/tariff"
	"tilerate/internal/errors"
)

// Engine prices bulk-pallet shipments of generic tiled goods.
type Engine struct {
	snap *tariff.Snapshot
}

// NewEngine returns an engine bound to an immutable tariff snapshot.
func NewEngine(snap *tariff.Snapshot) *Engine {
	return &Engine{snap: snap}
}

// Calculate validates the request, assembles the cost ladder and back-solves
// the sell price. Validation failures return a validation error before any
// cost math runs.
func (e *Engine) Calculate(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	pallet, ok := e.snap.Tariffs.Pallets[string(req.PalletType)]
	if !ok {
		return nil, errors.Validationf("pallet type %q is not in the tariff table", req.PalletType)
	}
	req.TransportMode = req.normalizedMode()

	kgGoods := req.QtyM2 * req.KgPerM2
	kgPallets := float64(req.PalletsCount) * pallet.WeightKg
	kgTotal := kgGoods + kgPallets

	palletCost := decimal.Zero
	if req.IncludePalletCost {
		palletCost = decimal.NewFromFloat(pallet.CostEUR).Mul(decimal.NewFromInt(int64(req.PalletsCount)))
	}

	var extras extrasLadder
	freightCharge := decimal.Zero

	switch req.Origin {
	case OriginES:
		if req.TransportMode == TransportGroupage {
			freightCharge = freight.GroupageRate(kgTotal, e.snap.Tariffs.Groupage)
			extras.note("groupage_mode", "Groupage line-haul (ES)", freightCharge)
		} else {
			freightCharge = freight.Rate(kgTotal, e.snap.Tariffs.ESFreight)
		}
	case OriginIT:
		freightCharge = freight.Rate(kgTotal, e.snap.Tariffs.ITFreight)
		if req.PalletType == PalletIndustrial {
			extra := decimal.NewFromFloat(e.snap.Tariffs.ITExtras.IndustrialPalletExtraEUR).
				Mul(decimal.NewFromInt(int64(req.PalletsCount)))
			extras.charge("it_industrial_pallet_extra",
				fmt.Sprintf("Industrial pallet surcharge (IT) x%d", req.PalletsCount), extra)
		}
	case OriginPT:
		// Portugal ships on the Spanish carrier table plus a per-m² surcharge.
		freightCharge = freight.Rate(kgTotal, e.snap.Tariffs.ESFreight)
		surcharge := decimal.NewFromFloat(e.snap.Tariffs.PTExtras.SurchargeEURPerM2).
			Mul(decimal.NewFromFloat(req.QtyM2))
		extras.charge("pt_surcharge_per_m2",
			fmt.Sprintf("Portugal surcharge per m² x%g", req.QtyM2), surcharge)
	case OriginPL:
		// Poland has no banded table: freight is exactly the caller-supplied
		// override, or zero when none was given.
		if req.FreightOverrideEUR != nil {
			freightCharge = decimal.NewFromFloat(*req.FreightOverrideEUR)
			extras.note("pl_manual_freight", "Manual freight (PL)", freightCharge)
		}
	}

	if req.Destination == DestGRCrete {
		crete := decimal.NewFromFloat(kgTotal).
			Mul(decimal.NewFromFloat(e.snap.Tariffs.GRExtras.CreteEURPerKg))
		extras.charge("gr_crete_island_surcharge",
			fmt.Sprintf("Crete island surcharge per kg x%.2f kg", kgTotal), crete)
	}

	goods := decimal.NewFromFloat(req.BuyPriceEURM2).Mul(decimal.NewFromFloat(req.QtyM2))
	logistics := freightCharge.Add(extras.total).Add(palletCost)
	totalCost := goods.Add(logistics)
	costPerM2 := totalCost.Div(decimal.NewFromFloat(req.QtyM2))
	sell, markup := backSolve(costPerM2, req.Margin)

	roundedCostPerM2 := roundMoney(costPerM2)
	roundedSell := roundMoney(sell)

	return &Result{
		Inputs:      req,
		Assumptions: Assumptions{KgPerM2: req.KgPerM2},
		Weights: WeightSummary{
			KgGoods:     roundKg(kgGoods),
			KgPackaging: roundKg(kgPallets),
			KgTotal:     roundKg(kgTotal),
		},
		Cost: CostBreakdown{
			Goods:           roundMoney(goods),
			Freight:         roundMoney(freightCharge),
			Extras:          roundMoney(extras.total),
			ExtrasBreakdown: extras.items,
			PalletCost:      roundMoney(palletCost),
			Logistics:       roundMoney(logistics),
			TotalCost:       roundMoney(totalCost),
			CostPerM2:       &roundedCostPerM2,
		},
		Pricing: PricingSummary{
			SellPricePerM2: &roundedSell,
			Margin:         req.Margin,
			MarkupEquiv:    roundRatio(markup),
		},
		Warnings: []string{},
	}, nil
}
