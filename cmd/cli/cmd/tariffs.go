// Package cmd - tariffs command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tilerate/internal/config"
)

// tariffsCmd inspects the tariff data
var tariffsCmd = &cobra.Command{
	Use:   "tariffs",
	Short: "Inspect tariff data",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// tariffsShowCmd dumps the loaded snapshot
var tariffsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Load, validate and print the tariff snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{
			"tariffs": snap.Tariffs,
			"catalog": snap.Catalog,
		})
	},
}

// tariffsValidateCmd checks the data files without printing them
var tariffsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the tariff data files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadSnapshot(); err != nil {
			return err
		}
		fmt.Printf("tariff data in %s is valid\n", config.Get().Tariffs.Directory)
		return nil
	},
}

func init() {
	tariffsCmd.AddCommand(tariffsShowCmd)
	tariffsCmd.AddCommand(tariffsValidateCmd)
}
