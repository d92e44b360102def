package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus statistics",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	records, err := docStore.Get(cmd.Context(), nil)
	if err != nil {
		return fmt.Errorf("reading store: %w", err)
	}

	backend := cfg.Storage.Backend
	if backend == "" {
		backend = "memory"
	}

	cmd.Printf("Storage backend:   %s\n", backend)
	cmd.Printf("Documents:         %d\n", registry.Size())
	cmd.Printf("Stored chunks:     %d\n", len(records))
	cmd.Printf("Indexed chunks:    %d\n", engine.Size())
	if cfg.Export.Dir != "" {
		cmd.Printf("Export directory:  %s\n", cfg.Export.Dir)
	}
	return nil
}
