package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"openx-hq/openx/pkg/cli"
	"openx-hq/openx/pkg/config"
)

var initFlags struct {
	output string
	force  bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a starter configuration file",
	Long: `Generate a complete, valid starter configuration.

The generated document declares BTC and ETH options settled in USDT,
a single Binance websocket market-data provider, a Postgres storage
backend wired to environment placeholders, and conservative risk and
fee settings. Every defaultable field is written out explicitly so the
file doubles as a reference for what can be tuned.

Examples:
  # Write config.yaml in the current directory
  openx init

  # Write somewhere else
  openx init --output deploy/exchange.yaml`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initFlags.output, "output", "o", "config.yaml", "output file path")
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	if !initFlags.force {
		if _, err := os.Stat(initFlags.output); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", initFlags.output)
		}
	}

	tree := config.GenerateDefault()
	if err := config.Save(tree, initFlags.output); err != nil {
		return cli.NewCommandError("init", err)
	}

	fmt.Printf("Wrote %s\n", initFlags.output)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Set the storage environment variables:")
	fmt.Println("     POSTGRES_HOST, POSTGRES_DB, POSTGRES_USER, POSTGRES_PASSWORD")
	fmt.Printf("  2. Validate: openx validate --config %s\n", initFlags.output)
	return nil
}
