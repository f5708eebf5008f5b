// Package cmd provides the CLI commands for tilerate.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tilerate/internal/config"
	"tilerate/internal/logging"
)

var (
	cfgFile   string
	tariffDir string
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tilerate",
	Short: "Rate and price shipments of tiled and slab goods",
	Long: `tilerate computes retail sell prices and full cost breakdowns for
shipments of tiles and slabs: banded line-haul freight, pallet or
crate/A-frame packaging, destination surcharges, and a sell price
back-solved from a target gross margin.

Examples:
  tilerate quote --origin ES --qty 100 --buy-price 10 --pallets 2 --margin 0.40
  tilerate slabs --brand infinity --thickness 6 --units 15 --unit-price 95 --margin 0.35
  tilerate tariffs show`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tilerate.json)")
	rootCmd.PersistentFlags().StringVar(&tariffDir, "tariffs", "", "tariff data directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(slabsCmd)
	rootCmd.AddCommand(tariffsCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if tariffDir != "" {
		cfg.Tariffs.Directory = tariffDir
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tilerate version 1.0.0")
	},
}
