// Package cmd - slabs command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tilerate/core/packaging"
	"tilerate/core/pricing"
)

var (
	slabsFormat     string
	slabsBrand      string
	slabsThickness  float64
	slabsDimensions string
	slabsUnits      int
	slabsPriceM2    float64
	slabsPriceUnit  float64
	slabsPack       string
	slabsDest       string
	slabsMargin     float64
)

// slabsCmd prices a slab shipment by unit count
var slabsCmd = &cobra.Command{
	Use:   "slabs",
	Short: "Price a slab shipment from raw unit counts",
	Long: `Compute packaging allocation, per-container costs, and sell price
for a slab shipment.

Examples:
  tilerate slabs --brand infinity --thickness 6 --units 15 --unit-price 95 --margin 0.35
  tilerate slabs --brand infinity --thickness 12 --dimensions 160x320 --units 8 --m2-price 21.5 --margin 0.40 --pack crate`,
	RunE: runSlabs,
}

func init() {
	slabsCmd.Flags().StringVarP(&slabsFormat, "format", "f", "text", "output format (text, json)")
	slabsCmd.Flags().StringVar(&slabsBrand, "brand", "", "slab brand")
	slabsCmd.Flags().Float64Var(&slabsThickness, "thickness", 0, "slab thickness in mm")
	slabsCmd.Flags().StringVar(&slabsDimensions, "dimensions", "", "exact dimensions for disambiguation, e.g. 160x320")
	slabsCmd.Flags().IntVar(&slabsUnits, "units", 0, "unit count")
	slabsCmd.Flags().Float64Var(&slabsPriceM2, "m2-price", 0, "purchase price in EUR per m² (authoritative when set)")
	slabsCmd.Flags().Float64Var(&slabsPriceUnit, "unit-price", 0, "purchase price in EUR per unit")
	slabsCmd.Flags().StringVar(&slabsPack, "pack", "auto", "packaging preference (auto, crate, a-frame)")
	slabsCmd.Flags().StringVar(&slabsDest, "destination", "GR-mainland", "destination (GR-mainland, GR-crete)")
	slabsCmd.Flags().Float64Var(&slabsMargin, "margin", 0, "target gross margin fraction, e.g. 0.40")
}

func runSlabs(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}

	req := pricing.SlabsRequest{
		Brand:       slabsBrand,
		Thickness:   slabsThickness,
		Dimensions:  slabsDimensions,
		Units:       slabsUnits,
		Pack:        packaging.Preference(slabsPack),
		Destination: pricing.Destination(slabsDest),
		Margin:      slabsMargin,
	}
	if cmd.Flags().Changed("m2-price") {
		req.BuyPriceEURM2 = &slabsPriceM2
	}
	if cmd.Flags().Changed("unit-price") {
		req.BuyPriceEURUnit = &slabsPriceUnit
	}

	result, err := pricing.NewSlabsEngine(snap).Calculate(req)
	if err != nil {
		return err
	}

	if slabsFormat == "json" {
		return printJSON(result)
	}

	fmt.Printf("Slabs: %d x %s %gmm", req.Units, req.Brand, req.Thickness)
	if result.Resolved.Dimensions != "" {
		fmt.Printf(" (%s)", result.Resolved.Dimensions)
	}
	fmt.Println()
	fmt.Println("Packaging:")
	for _, c := range result.Packaging.Containers {
		fmt.Printf("  %-8s %d/%d units\n", c.Type, c.UnitsAssigned, c.Capacity)
	}
	fmt.Printf("Weight:   %.2f kg slabs + %.2f kg containers = %.2f kg\n",
		result.Weights.KgGoods, result.Weights.KgPackaging, result.Weights.KgTotal)
	fmt.Println()
	printLadder(&result.Cost)
	fmt.Println()
	if result.Pricing.SellPricePerM2 != nil {
		fmt.Printf("Sell price: %s EUR/m²", result.Pricing.SellPricePerM2.StringFixed(2))
	} else {
		fmt.Printf("Sell price: n/a per m²")
	}
	fmt.Printf(" / %s EUR per unit at %.0f%% gross margin\n",
		result.Pricing.SellPricePerUnit.StringFixed(2), result.Pricing.Margin*100)
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	return nil
}
