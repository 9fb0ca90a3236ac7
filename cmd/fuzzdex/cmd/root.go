// Package cmd provides the CLI commands for fuzzdex.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/fuzzdex/internal/version"
)

// NewRootCmd creates the root command of the fuzzdex CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuzzdex",
		Short: "Typo-tolerant search over relational tables",
		Long: `Fuzzdex serves trigram-based fuzzy search over the text columns of
relational tables, on PostgreSQL (pg_trgm) or embedded SQLite.

Configuration is read from config/<env>.yaml, selected by FUZZDEX_ENV
(default "local"). Values of the form ${VAR} are expanded from the
environment; a .env file in the working directory is loaded first when
present.`,
		Version: version.Version,
	}

	cmd.SetVersionTemplate("fuzzdex version {{.Version}}\n")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()
	return NewRootCmd().Execute()
}
