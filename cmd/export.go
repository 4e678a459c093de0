package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"skinscan/database"
	"skinscan/report"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export the analysis history to Parquet",
		Example: `  skinscan export --out history.parquet`,
		RunE:    runExport,
	}

	cmd.Flags().StringP("out", "o", "history.parquet", "Output file")
	cmd.Flags().String("db", "", "SQLite database path")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	outPath, _ := cmd.Flags().GetString("out")

	store, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	analyses, err := store.All(cmd.Context())
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	n, err := report.WriteParquet(f, analyses)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "exported %d analyses to %s\n", n, outPath)
	return nil
}
