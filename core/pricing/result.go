package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"tilerate/core/packaging"
)

// ExtraItem is one line of the surcharge breakdown. Informational lines
// (amounts already counted elsewhere in the ladder, such as manual freight)
// carry Informational=true and are excluded from the extras total.
type ExtraItem struct {
	Code          string          `json:"code"`
	Label         string          `json:"label"`
	Amount        decimal.Decimal `json:"amount"`
	Informational bool            `json:"informational,omitempty"`
}

// WeightSummary reports the shipment weight composition in kilograms.
type WeightSummary struct {
	KgGoods     float64 `json:"kg_goods"`
	KgPackaging float64 `json:"kg_packaging"`
	KgTotal     float64 `json:"kg_total"`
}

// CostBreakdown is the itemized cost ladder. Handling, container shipping
// and the per-unit figures only apply to slab shipments; area-denominated
// figures are nil when the area per unit could not be resolved.
type CostBreakdown struct {
	Goods             decimal.Decimal  `json:"cost_goods"`
	Handling          *decimal.Decimal `json:"handling,omitempty"`
	ContainerShipping *decimal.Decimal `json:"container_shipping,omitempty"`
	Freight           decimal.Decimal  `json:"freight"`
	Extras            decimal.Decimal  `json:"extras"`
	ExtrasBreakdown   []ExtraItem      `json:"extras_breakdown"`
	PalletCost        decimal.Decimal  `json:"pallet_cost"`
	Logistics         decimal.Decimal  `json:"logistics"`
	TotalCost         decimal.Decimal  `json:"total_cost"`
	CostPerM2         *decimal.Decimal `json:"cost_per_m2"`
	CostPerUnit       *decimal.Decimal `json:"cost_per_unit,omitempty"`
}

// PricingSummary is the back-solved sell price and its margin KPIs.
type PricingSummary struct {
	SellPricePerM2   *decimal.Decimal `json:"sell_price_per_m2"`
	SellPricePerUnit *decimal.Decimal `json:"sell_price_per_unit,omitempty"`
	Margin           float64          `json:"margin"`
	MarkupEquiv      decimal.Decimal  `json:"markup_equiv"`
}

// Assumptions echoes the values the computation assumed rather than received.
type Assumptions struct {
	KgPerM2 float64 `json:"kg_per_m2"`
}

// Result is the output of a bulk-pallet pricing call.
type Result struct {
	Inputs      Request        `json:"inputs"`
	Assumptions Assumptions    `json:"assumptions"`
	Weights     WeightSummary  `json:"weights"`
	Cost        CostBreakdown  `json:"cost"`
	Pricing     PricingSummary `json:"pricing"`
	Warnings    []string       `json:"warnings"`
}

// ResolvedSlab echoes the slab spec and effective prices the slabs engine
// settled on after resolution.
type ResolvedSlab struct {
	Brand           string           `json:"brand"`
	Thickness       float64          `json:"thickness"`
	Dimensions      string           `json:"dimensions,omitempty"`
	SMPU            *float64         `json:"smpu,omitempty"`
	WeightKgPerUnit float64          `json:"weight_kg_per_unit"`
	BuyPriceEURM2   *decimal.Decimal `json:"buy_price_eur_m2,omitempty"`
	BuyPriceEURUnit decimal.Decimal  `json:"buy_price_eur_unit"`
}

// SlabsResult is the output of a slabs pricing call.
type SlabsResult struct {
	Inputs    SlabsRequest         `json:"inputs"`
	Resolved  ResolvedSlab         `json:"resolved"`
	Packaging *packaging.Breakdown `json:"packaging"`
	Weights   WeightSummary        `json:"weights"`
	Cost      CostBreakdown        `json:"cost"`
	Pricing   PricingSummary       `json:"pricing"`
	Warnings  []string             `json:"warnings"`
}

// extrasLadder accumulates surcharge lines append-only and is assembled into
// the breakdown once at the end of a calculation.
type extrasLadder struct {
	items []ExtraItem
	total decimal.Decimal
}

// charge appends a surcharge line and counts it toward the extras total.
func (l *extrasLadder) charge(code, label string, amount decimal.Decimal) {
	l.items = append(l.items, ExtraItem{Code: code, Label: label, Amount: roundMoney(amount)})
	l.total = l.total.Add(amount)
}

// note appends a line for visibility only; the amount is already carried by
// another ladder component.
func (l *extrasLadder) note(code, label string, amount decimal.Decimal) {
	l.items = append(l.items, ExtraItem{Code: code, Label: label, Amount: roundMoney(amount), Informational: true})
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func roundRatio(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}

func roundKg(kg float64) float64 {
	return math.Round(kg*100) / 100
}

// backSolve derives the sell price and markup-equivalent from a cost figure.
// Sell price is cost / (1 - margin), never an additive markup, so the
// realized gross margin matches the requested fraction exactly.
func backSolve(cost decimal.Decimal, margin float64) (sell, markup decimal.Decimal) {
	one := decimal.NewFromInt(1)
	sell = cost.Div(one.Sub(decimal.NewFromFloat(margin)))
	markup = sell.Div(cost).Sub(one)
	return sell, markup
}
