// Package cmd wires the skinscan command line.
package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"skinscan/config"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skinscan",
		Short: "Simulated skin analysis with ingredient recommendations",
		Long: `skinscan runs a heuristic skin analysis on face photos and recommends
skincare ingredients for what it finds.

The analysis is a simulation based on simple pixel statistics. It is not a
medical diagnosis.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional
			_ = godotenv.Load()

			verbose, _ := cmd.Flags().GetBool("verbose")
			slog.SetDefault(setupLogger(verbose))
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default: ./.skinscan.yaml or $XDG_CONFIG_HOME/skinscan/config.yaml)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves the configuration and applies --db when the command
// has it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
		cfg.DBPath = f.Value.String()
	}
	return cfg, nil
}
