// Package cmd - quote command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tilerate/core/pricing"
	"tilerate/core/tariff"
	"tilerate/internal/config"
)

var (
	quoteFormat     string
	quoteBuyPrice   float64
	quoteQty        float64
	quoteKgPerM2    float64
	quotePallets    int
	quotePalletType string
	quoteOrigin     string
	quoteDest       string
	quoteMargin     float64
	quoteTransport  string
	quoteFreight    float64
	quoteNoPallets  bool
)

// quoteCmd prices a bulk-pallet shipment
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a bulk-pallet tile shipment",
	Long: `Compute the cost ladder and sell price for a bulk-pallet shipment.

Examples:
  tilerate quote --origin ES --qty 100 --buy-price 10 --pallets 2 --margin 0.40
  tilerate quote --origin PL --qty 50 --buy-price 8 --pallets 1 --margin 0.35 --freight 420
  tilerate quote --origin ES --qty 100 --buy-price 10 --pallets 2 --margin 0.40 --transport groupage`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteFormat, "format", "f", "text", "output format (text, json)")
	quoteCmd.Flags().Float64Var(&quoteBuyPrice, "buy-price", 0, "purchase price in EUR per m²")
	quoteCmd.Flags().Float64Var(&quoteQty, "qty", 0, "quantity in m²")
	quoteCmd.Flags().Float64Var(&quoteKgPerM2, "kg-per-m2", 0, "weight per m² (default from config)")
	quoteCmd.Flags().IntVar(&quotePallets, "pallets", 1, "pallet count")
	quoteCmd.Flags().StringVar(&quotePalletType, "pallet-type", "eu", "pallet type (eu, industrial)")
	quoteCmd.Flags().StringVar(&quoteOrigin, "origin", "", "origin country (ES, IT, PT, PL)")
	quoteCmd.Flags().StringVar(&quoteDest, "destination", "GR-mainland", "destination (GR-mainland, GR-crete)")
	quoteCmd.Flags().Float64Var(&quoteMargin, "margin", 0, "target gross margin fraction, e.g. 0.40")
	quoteCmd.Flags().StringVar(&quoteTransport, "transport", "road", "transport mode (road, groupage)")
	quoteCmd.Flags().Float64Var(&quoteFreight, "freight", 0, "manual freight override in EUR (PL only)")
	quoteCmd.Flags().BoolVar(&quoteNoPallets, "exclude-pallet-cost", false, "exclude pallet cost from the ladder")
}

func runQuote(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}

	kgPerM2 := quoteKgPerM2
	if kgPerM2 == 0 {
		kgPerM2 = config.Get().Pricing.DefaultKgPerM2
	}

	req := pricing.Request{
		BuyPriceEURM2:     quoteBuyPrice,
		QtyM2:             quoteQty,
		KgPerM2:           kgPerM2,
		PalletsCount:      quotePallets,
		PalletType:        pricing.PalletType(quotePalletType),
		Origin:            pricing.Origin(quoteOrigin),
		Destination:       pricing.Destination(quoteDest),
		Margin:            quoteMargin,
		TransportMode:     pricing.TransportMode(quoteTransport),
		IncludePalletCost: !quoteNoPallets,
	}
	if cmd.Flags().Changed("freight") {
		req.FreightOverrideEUR = &quoteFreight
	}

	result, err := pricing.NewEngine(snap).Calculate(req)
	if err != nil {
		return err
	}

	if quoteFormat == "json" {
		return printJSON(result)
	}

	fmt.Printf("Shipment: %g m² from %s to %s, %d %s pallet(s)\n",
		quoteQty, req.Origin, req.Destination, req.PalletsCount, req.PalletType)
	fmt.Printf("Weight:   %.2f kg goods + %.2f kg pallets = %.2f kg\n",
		result.Weights.KgGoods, result.Weights.KgPackaging, result.Weights.KgTotal)
	fmt.Println()
	printLadder(&result.Cost)
	fmt.Println()
	fmt.Printf("Sell price: %s EUR/m² at %.0f%% gross margin (markup %s)\n",
		result.Pricing.SellPricePerM2.StringFixed(2),
		result.Pricing.Margin*100,
		result.Pricing.MarkupEquiv.String())
	return nil
}

func printLadder(cost *pricing.CostBreakdown) {
	line := func(label string, amount decimal.Decimal) {
		fmt.Printf("  %-22s %12s EUR\n", label, amount.StringFixed(2))
	}
	line("Goods", cost.Goods)
	if cost.Handling != nil {
		line("Handling", *cost.Handling)
	}
	if cost.ContainerShipping != nil {
		line("Container shipping", *cost.ContainerShipping)
	}
	line("Freight", cost.Freight)
	line("Extras", cost.Extras)
	for _, item := range cost.ExtrasBreakdown {
		marker := ""
		if item.Informational {
			marker = " (informational)"
		}
		fmt.Printf("    - %-20s %10s EUR%s\n", item.Label, item.Amount.StringFixed(2), marker)
	}
	line("Pallet cost", cost.PalletCost)
	line("Logistics", cost.Logistics)
	line("Total cost", cost.TotalCost)
	if cost.CostPerM2 != nil {
		line("Cost per m²", *cost.CostPerM2)
	}
	if cost.CostPerUnit != nil {
		line("Cost per unit", *cost.CostPerUnit)
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loadSnapshot() (*tariff.Snapshot, error) {
	return tariff.Load(config.Get().Tariffs.Directory)
}
