// Package freight implements the banded line-haul rate lookup.
//
// A table is an ordered list of inclusive weight bands; the first band
// containing the shipment weight wins. Within a band the flat charge applies
// when positive, otherwise the per-kg rate times the weight. The two table
// kinds differ only in their out-of-range behavior.
package freight

import (
	"github.com/shopspring/decimal"

	"tilerate/core/tariff"
)

// Rate returns the charge for a shipment weight against a standard freight
// table. Weights beyond the last band fall back to the table-level default
// per-kg rate.
func Rate(kg float64, table tariff.FreightTable) decimal.Decimal {
	for _, band := range table.Bands {
		if !band.Contains(kg) {
			continue
		}
		if band.FlatEUR > 0 {
			return decimal.NewFromFloat(band.FlatEUR)
		}
		return perKg(kg, band.EURPerKg)
	}
	return perKg(kg, table.DefaultEURPerKg)
}

// GroupageRate returns the charge against a groupage table. Groupage tables
// carry no table-level default: an empty table prices as zero, and weights
// beyond the last band reuse the last band's per-kg rate.
func GroupageRate(kg float64, table tariff.GroupageTable) decimal.Decimal {
	for _, band := range table.Bands {
		if !band.Contains(kg) {
			continue
		}
		if band.FlatEUR > 0 {
			return decimal.NewFromFloat(band.FlatEUR)
		}
		return perKg(kg, band.EURPerKg)
	}
	if n := len(table.Bands); n > 0 {
		return perKg(kg, table.Bands[n-1].EURPerKg)
	}
	return decimal.Zero
}

func perKg(kg, rate float64) decimal.Decimal {
	return decimal.NewFromFloat(kg).Mul(decimal.NewFromFloat(rate))
}
