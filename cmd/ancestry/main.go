// Package main is the entry point for the ancestry builder CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/ancestry-builder/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "ancestry",
	Short: "Custom ancestry builder",
	Long: `Ancestry builds custom character ancestries from a trait catalog, enforcing
trait prerequisites and exclusions while tracking point costs.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.GetCode(err).ExitCode())
	}
}

func init() {
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid flags")
	})

	rootCmd.PersistentFlags().StringSliceVar(&catalogPaths, "catalog", nil, "Catalog files to load, merged in order (env ANCESTRY_CATALOG_PATHS)")
	rootCmd.PersistentFlags().IntVar(&pointBudget, "budget", 0, "Recommended point budget; 0 uses the catalog value (env ANCESTRY_POINT_BUDGET)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (env ANCESTRY_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&dotenvFile, "env-file", "", "Dotenv file to read before the environment (default .env)")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(sessionCmd)
}
