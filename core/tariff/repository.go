package tariff

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"tilerate/internal/errors"
)

// Data file names inside the tariff directory. The split mirrors the carrier
// the table belongs to, so operators can update one carrier at a time.
const (
	extrasFile    = "extras.json"
	esFreightFile = "helios_es.json"
	itFreightFile = "hermes_it.json"
	groupageFile  = "groupage.json"
	slabsFile     = "slabs.json"
)

// Snapshot is the immutable in-memory view of all tariff data. It is built
// once at startup; engines hold a reference and never mutate it.
type Snapshot struct {
	Tariffs Set
	Catalog Catalog
}

// UnmarshalJSON accepts either a flat band array or an object wrapping one
// under "groupage". Both layouts exist in the field.
func (g *GroupageTable) UnmarshalJSON(data []byte) error {
	var bands []Band
	if err := json.Unmarshal(data, &bands); err == nil {
		g.Bands = bands
		return nil
	}
	type wrapped struct {
		Bands []Band `json:"groupage"`
	}
	var w wrapped
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	g.Bands = w.Bands
	return nil
}

// Load reads and validates every tariff data file under dir. Any missing or
// malformed file is a configuration error; callers must treat it as fatal
// and refuse to serve pricing requests.
func Load(dir string) (*Snapshot, error) {
	var snap Snapshot

	// extras.json carries the pallet table and per-country extras together.
	var extras struct {
		Pallets  map[string]PalletSpec `json:"pallets"`
		GRExtras GreeceExtras          `json:"gr_extras"`
		ITExtras ItalyExtras           `json:"it_extras"`
		PTExtras PortugalExtras        `json:"pt_extras"`
	}
	if err := readJSON(filepath.Join(dir, extrasFile), &extras); err != nil {
		return nil, err
	}
	snap.Tariffs.Pallets = extras.Pallets
	snap.Tariffs.GRExtras = extras.GRExtras
	snap.Tariffs.ITExtras = extras.ITExtras
	snap.Tariffs.PTExtras = extras.PTExtras

	if err := readJSON(filepath.Join(dir, esFreightFile), &snap.Tariffs.ESFreight); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, itFreightFile), &snap.Tariffs.ITFreight); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, groupageFile), &snap.Tariffs.Groupage); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, slabsFile), &snap.Catalog); err != nil {
		return nil, err
	}

	if err := snap.validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Config(fmt.Sprintf("read tariff file %s", filepath.Base(path)), err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), v); err != nil {
		return errors.Config(fmt.Sprintf("parse tariff file %s", filepath.Base(path)), err)
	}
	return nil
}

func (s *Snapshot) validate() error {
	if err := validateBands(esFreightFile, s.Tariffs.ESFreight.Bands); err != nil {
		return err
	}
	if err := validateBands(itFreightFile, s.Tariffs.ITFreight.Bands); err != nil {
		return err
	}
	if err := validateBands(groupageFile, s.Tariffs.Groupage.Bands); err != nil {
		return err
	}

	if len(s.Tariffs.Pallets) == 0 {
		return errors.Configf("%s: pallet table is empty", extrasFile)
	}
	for name, p := range s.Tariffs.Pallets {
		if p.WeightKg <= 0 {
			return errors.Configf("%s: pallet %q has non-positive weight", extrasFile, name)
		}
		if p.CostEUR < 0 {
			return errors.Configf("%s: pallet %q has negative cost", extrasFile, name)
		}
	}
	if s.Tariffs.GRExtras.CreteEURPerKg < 0 {
		return errors.Configf("%s: negative crete_eur_per_kg", extrasFile)
	}

	for brand, specs := range s.Catalog.Brands {
		for i, spec := range specs {
			if spec.Thickness <= 0 {
				return errors.Configf("%s: brand %q spec %d has non-positive thickness", slabsFile, brand, i)
			}
			if spec.WeightKg <= 0 {
				return errors.Configf("%s: brand %q spec %d has non-positive weight", slabsFile, brand, i)
			}
		}
	}
	for i, p := range s.Catalog.Palette {
		if p.Type == "" {
			return errors.Configf("%s: palette entry %d has empty type", slabsFile, i)
		}
		if p.PricePerUnit < 0 || p.WeightKg < 0 {
			return errors.Configf("%s: palette %q has negative cost or weight", slabsFile, p.Type)
		}
	}
	ps := s.Catalog.PaletteShipping
	if ps.FirstPaletteEUR < 0 || ps.AdditionalPaletteEUR < 0 {
		return errors.Configf("%s: negative palette_shipping rate", slabsFile)
	}
	return nil
}

// validateBands checks shape only. Overlap between adjacent bands is not an
// error: the band walk takes the first match in file order.
func validateBands(file string, bands []Band) error {
	for i, b := range bands {
		if b.MinKg < 0 {
			return errors.Configf("%s: band %d has negative min_kg", file, i)
		}
		if b.MaxKg < b.MinKg {
			return errors.Configf("%s: band %d has max_kg below min_kg", file, i)
		}
		if b.FlatEUR < 0 || b.EURPerKg < 0 {
			return errors.Configf("%s: band %d has a negative charge", file, i)
		}
		if b.FlatEUR > 0 && b.EURPerKg > 0 {
			return errors.Configf("%s: band %d sets both flat_eur and eur_per_kg", file, i)
		}
	}
	return nil
}
