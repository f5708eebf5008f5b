// Package tariff owns the immutable tariff and slab-catalog tables.
// Tables are loaded once at startup and never mutated afterwards; every
// pricing request reads the same snapshot.
package tariff

// Band is a weight range with an associated freight charge. At most one of
// FlatEUR and EURPerKg is positive; the band walk uses whichever is set.
type Band struct {
	MinKg    float64 `json:"min_kg"`
	MaxKg    float64 `json:"max_kg"`
	FlatEUR  float64 `json:"flat_eur,omitempty"`
	EURPerKg float64 `json:"eur_per_kg,omitempty"`
}

// Contains reports whether kg falls inside the band, inclusive on both ends.
func (b Band) Contains(kg float64) bool {
	return b.MinKg <= kg && kg <= b.MaxKg
}

// FreightTable is an ordered band list with a table-level default per-kg rate
// applied when the weight exceeds every band.
type FreightTable struct {
	Bands           []Band  `json:"bands"`
	DefaultEURPerKg float64 `json:"default_eur_per_kg"`
}

// GroupageTable is the alternate freight table for consolidated transport.
// It carries no table-level default: out-of-range weights reuse the last
// band's per-kg rate, and an empty table prices as zero.
type GroupageTable struct {
	Bands []Band `json:"groupage"`
}

// PalletSpec is the unit cost and weight of one pallet type.
type PalletSpec struct {
	CostEUR  float64 `json:"cost_eur"`
	WeightKg float64 `json:"weight_kg"`
}

// GreeceExtras holds destination surcharges for Greek islands.
type GreeceExtras struct {
	CreteEURPerKg float64 `json:"crete_eur_per_kg"`
}

// ItalyExtras holds origin surcharges for Italian shipments.
type ItalyExtras struct {
	IndustrialPalletExtraEUR float64 `json:"industrial_pallet_extra_eur"`
}

// PortugalExtras holds origin surcharges for Portuguese shipments.
type PortugalExtras struct {
	SurchargeEURPerM2 float64 `json:"surcharge_eur_per_m2"`
}

// Set is the full tariff snapshot for the general bulk-pallet engine.
type Set struct {
	ESFreight FreightTable          `json:"es_freight"`
	ITFreight FreightTable          `json:"it_freight"`
	Groupage  GroupageTable         `json:"groupage"`
	Pallets   map[string]PalletSpec `json:"pallets"`
	GRExtras  GreeceExtras          `json:"gr_extras"`
	ITExtras  ItalyExtras           `json:"it_extras"`
	PTExtras  PortugalExtras        `json:"pt_extras"`
}
