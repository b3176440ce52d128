package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cardstash/internal/csvimport"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Replace the inventory from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0])
		},
	}
}

func runImport(cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	parsed, err := csvimport.ParseInventory(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close()
	}()

	imported, err := app.Inventory.Import(cmd.Context(), parsed.Records)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d records (%d skipped)\n", imported, parsed.Skipped)
	return nil
}
