package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerrun-dev/ledgerrun/internal/config"
	"github.com/ledgerrun-dev/ledgerrun/internal/store"
)

func newInitCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a ledgerrun project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(absDir, dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "database", "ledger.db", "database file, relative to the project directory")

	return cmd
}

func runInit(dir, dbPath string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfg := config.Default(dbPath)
	if err := config.Save(filepath.Join(dir, "ledgerrun.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Opening creates the database and applies the schema.
	db, err := store.Open(filepath.Join(dir, dbPath))
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	fmt.Printf("Initialized ledgerrun project at %s\n", dir)
	return nil
}
