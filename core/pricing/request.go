package pricing

import (
	"tilerate/core/packaging"
	"tilerate/internal/errors"
)

// Origin is a supported purchase origin country.
type Origin string

const (
	OriginES Origin = "ES"
	OriginIT Origin = "IT"
	OriginPT Origin = "PT"
	OriginPL Origin = "PL"
)

// Destination is a supported delivery destination.
type Destination string

const (
	DestGRMainland Destination = "GR-mainland"
	DestGRCrete    Destination = "GR-crete"
)

// PalletType is a supported pallet kind for bulk shipments.
type PalletType string

const (
	PalletEU         PalletType = "eu"
	PalletIndustrial PalletType = "industrial"
)

// TransportMode selects between standard road transport and consolidated
// groupage transport.
type TransportMode string

const (
	TransportRoad     TransportMode = "road"
	TransportGroupage TransportMode = "groupage"
)

// groupageOrigins is the allow-list of origins that support groupage.
// Requests from other origins asking for groupage are normalized to road.
var groupageOrigins = map[Origin]bool{
	OriginES: true,
	OriginPL: true,
}

func (o Origin) valid() bool {
	switch o {
	case OriginES, OriginIT, OriginPT, OriginPL:
		return true
	}
	return false
}

func (d Destination) valid() bool {
	switch d {
	case DestGRMainland, DestGRCrete:
		return true
	}
	return false
}

func (p PalletType) valid() bool {
	switch p {
	case PalletEU, PalletIndustrial:
		return true
	}
	return false
}

func (m TransportMode) valid() bool {
	switch m {
	case TransportRoad, TransportGroupage, "":
		return true
	}
	return false
}

// Request is one bulk-pallet pricing call. All fields are explicit; the host
// layer fills any assumptions (such as the default kg/m²) before calling.
type Request struct {
	BuyPriceEURM2      float64       `json:"buy_price_eur_m2"`
	QtyM2              float64       `json:"qty_m2"`
	KgPerM2            float64       `json:"kg_per_m2"`
	PalletsCount       int           `json:"pallets_count"`
	PalletType         PalletType    `json:"pallet_type"`
	Origin             Origin        `json:"origin"`
	Destination        Destination   `json:"destination"`
	Margin             float64       `json:"margin"`
	TransportMode      TransportMode `json:"transport_mode"`
	FreightOverrideEUR *float64      `json:"freight_override_eur,omitempty"`
	IncludePalletCost  bool          `json:"include_pallet_cost"`
}

// Validate checks every request precondition before any cost math runs.
func (r *Request) Validate() error {
	if r.QtyM2 <= 0 {
		return errors.Validation("qty_m2 must be > 0")
	}
	if r.KgPerM2 <= 0 {
		return errors.Validation("kg_per_m2 must be > 0")
	}
	if r.PalletsCount < 1 {
		return errors.Validation("pallets_count must be >= 1")
	}
	if !(r.Margin > 0 && r.Margin < 1) {
		return errors.Validation("margin must be between 0 and 1 exclusive (e.g. 0.40)")
	}
	if !r.Origin.valid() {
		return errors.Validationf("unsupported origin: %q", r.Origin)
	}
	if !r.Destination.valid() {
		return errors.Validationf("unsupported destination: %q", r.Destination)
	}
	if !r.PalletType.valid() {
		return errors.Validationf("unsupported pallet type: %q", r.PalletType)
	}
	if !r.TransportMode.valid() {
		return errors.Validationf("unsupported transport mode: %q", r.TransportMode)
	}
	return nil
}

// normalizedMode resolves the effective transport mode. Groupage is honored
// only for allow-listed origins; everything else is normalized to road.
// This is input normalization, not a degraded computation, so no warning.
func (r *Request) normalizedMode() TransportMode {
	mode := r.TransportMode
	if mode == "" {
		mode = TransportRoad
	}
	if mode == TransportGroupage && !groupageOrigins[r.Origin] {
		mode = TransportRoad
	}
	return mode
}

// SlabsRequest is one slab pricing call, denominated in physical units.
// At least one of the two purchase price fields must be positive; when both
// are given the per-m² price is authoritative.
type SlabsRequest struct {
	Brand           string               `json:"brand"`
	Thickness       float64              `json:"thickness"`
	Dimensions      string               `json:"dimensions,omitempty"`
	Units           int                  `json:"units"`
	BuyPriceEURM2   *float64             `json:"buy_price_eur_m2,omitempty"`
	BuyPriceEURUnit *float64             `json:"buy_price_eur_unit,omitempty"`
	Pack            packaging.Preference `json:"pack"`
	Destination     Destination          `json:"destination"`
	Margin          float64              `json:"margin"`
}

// Validate checks every request precondition before any cost math runs.
func (r *SlabsRequest) Validate() error {
	if r.Brand == "" {
		return errors.Validation("brand is required")
	}
	if r.Thickness <= 0 {
		return errors.Validation("thickness must be > 0")
	}
	if r.Units <= 0 {
		return errors.Validation("units must be > 0")
	}
	if !(r.Margin > 0 && r.Margin < 1) {
		return errors.Validation("margin must be between 0 and 1 exclusive (e.g. 0.40)")
	}
	if !r.Destination.valid() {
		return errors.Validationf("unsupported destination: %q", r.Destination)
	}
	if _, err := packaging.ParsePreference(string(r.Pack)); err != nil {
		return err
	}
	hasM2 := r.BuyPriceEURM2 != nil && *r.BuyPriceEURM2 > 0
	hasUnit := r.BuyPriceEURUnit != nil && *r.BuyPriceEURUnit > 0
	if !hasM2 && !hasUnit {
		return errors.Validation("a positive buy_price_eur_m2 or buy_price_eur_unit is required")
	}
	return nil
}
