package tariff

import "strings"

// SlabSpec describes one slab product line: physical dimensions, weight, and
// the packaging capacities of the two container types.
type SlabSpec struct {
	Thickness float64 `json:"thickness"`
	// Dimensions is a WxH string in centimeters, e.g. "160x320".
	Dimensions string `json:"dimensions"`
	// SMPU is the area one unit covers, in square meters per unit.
	SMPU           float64 `json:"smpu"`
	WeightKg       float64 `json:"weight_kg"`
	CrateMaxUnits  int     `json:"crate_max_units"`
	AFrameMaxUnits int     `json:"aframe_max_units"`
}

// PaletteSpec is the handling cost and tare weight of one container type.
type PaletteSpec struct {
	Type         string  `json:"type"`
	PricePerUnit float64 `json:"price_per_unit"`
	WeightKg     float64 `json:"weight_kg"`
}

// PaletteShipping holds the per-container shipping constants: the first
// container at one rate, every additional container at another.
type PaletteShipping struct {
	FirstPaletteEUR      float64 `json:"first_palette_eur"`
	AdditionalPaletteEUR float64 `json:"additional_palette_eur"`
}

// Catalog is the slab-business snapshot: per-brand specs, the palette
// config, shipping constants, and the per-container-type Crete flat rates.
type Catalog struct {
	Brands          map[string][]SlabSpec `json:"brands"`
	Palette         []PaletteSpec         `json:"palette"`
	PaletteShipping PaletteShipping       `json:"palette_shipping"`
	// CreteExtras maps container type to a flat surcharge per container for
	// GR-crete deliveries. Unlike the general engine this is not per-kg.
	CreteExtras map[string]float64 `json:"crete_extras"`
}

// BrandSpecs returns the spec list for a brand, case-insensitively.
func (c *Catalog) BrandSpecs(brand string) ([]SlabSpec, bool) {
	if specs, ok := c.Brands[brand]; ok {
		return specs, true
	}
	want := strings.ToLower(brand)
	for name, specs := range c.Brands {
		if strings.ToLower(name) == want {
			return specs, true
		}
	}
	return nil, false
}

// PaletteFor returns the palette config for a container type.
func (c *Catalog) PaletteFor(containerType string) (PaletteSpec, bool) {
	for _, p := range c.Palette {
		if p.Type == containerType {
			return p, true
		}
	}
	return PaletteSpec{}, false
}
