package freight

import (
	"testing"

	"github.com/shopspring/decimal"

	"tilerate/core/tariff"
)

func standardTable() tariff.FreightTable {
	return tariff.FreightTable{
		Bands: []tariff.Band{
			{MinKg: 0, MaxKg: 500, FlatEUR: 95},
			{MinKg: 501, MaxKg: 1500, FlatEUR: 180},
			{MinKg: 1501, MaxKg: 3000, EURPerKg: 0.14},
			{MinKg: 3001, MaxKg: 10000, EURPerKg: 0.11},
		},
		DefaultEURPerKg: 0.09,
	}
}

func TestRateBandSelection(t *testing.T) {
	table := standardTable()

	tests := []struct {
		name string
		kg   float64
		want string
	}{
		{"first band flat", 100, "95"},
		{"first band upper edge inclusive", 500, "95"},
		{"second band lower edge inclusive", 501, "180"},
		{"per-kg band", 2000, "280"},          // 2000 * 0.14
		{"per-kg band upper edge", 3000, "420"}, // 3000 * 0.14
		{"beyond last band uses default", 12000, "1080"}, // 12000 * 0.09
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rate(tt.kg, table)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Rate(%g) = %s, want %s", tt.kg, got, tt.want)
			}
		})
	}
}

func TestRateFirstMatchWins(t *testing.T) {
	// Overlapping bands are a data-entry mistake; the walk must still take
	// the first match in file order, not guess.
	table := tariff.FreightTable{
		Bands: []tariff.Band{
			{MinKg: 0, MaxKg: 1000, FlatEUR: 50},
			{MinKg: 500, MaxKg: 2000, FlatEUR: 300},
		},
	}
	got := Rate(750, table)
	if !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Rate(750) = %s, want first band's 50", got)
	}
}

func TestRateMonotonicNonDecreasing(t *testing.T) {
	// With non-decreasing per-kg rates the charge must never drop as the
	// weight grows.
	table := tariff.FreightTable{
		Bands: []tariff.Band{
			{MinKg: 0, MaxKg: 1000, EURPerKg: 0.10},
			{MinKg: 1001, MaxKg: 3000, EURPerKg: 0.12},
			{MinKg: 3001, MaxKg: 9000, EURPerKg: 0.15},
		},
		DefaultEURPerKg: 0.15,
	}
	prev := decimal.Zero
	for kg := 10.0; kg <= 12000; kg += 10 {
		got := Rate(kg, table)
		if got.LessThan(prev) {
			t.Fatalf("Rate(%g) = %s dropped below previous %s", kg, got, prev)
		}
		prev = got
	}
}

func TestGroupageRate(t *testing.T) {
	table := tariff.GroupageTable{
		Bands: []tariff.Band{
			{MinKg: 0, MaxKg: 1000, FlatEUR: 140},
			{MinKg: 1001, MaxKg: 4000, EURPerKg: 0.12},
		},
	}

	if got := GroupageRate(800, table); !got.Equal(decimal.NewFromInt(140)) {
		t.Errorf("GroupageRate(800) = %s, want 140", got)
	}
	if got := GroupageRate(2000, table); !got.Equal(decimal.NewFromInt(240)) {
		t.Errorf("GroupageRate(2000) = %s, want 240", got)
	}
}

func TestGroupageRateBeyondLastBandUsesLastPerKg(t *testing.T) {
	table := tariff.GroupageTable{
		Bands: []tariff.Band{
			{MinKg: 0, MaxKg: 1000, FlatEUR: 140},
			{MinKg: 1001, MaxKg: 4000, EURPerKg: 0.12},
		},
	}
	// 6000 kg is outside every band: the last band's per-kg rate applies,
	// there is no table-level default for groupage.
	got := GroupageRate(6000, table)
	if !got.Equal(decimal.NewFromInt(720)) {
		t.Errorf("GroupageRate(6000) = %s, want 720", got)
	}
}

func TestGroupageRateEmptyTableIsZero(t *testing.T) {
	got := GroupageRate(1234, tariff.GroupageTable{})
	if !got.IsZero() {
		t.Errorf("GroupageRate on empty table = %s, want 0", got)
	}
}
