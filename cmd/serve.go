package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"skinscan/analysis"
	"skinscan/database"
	"skinscan/handlers"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Starts the skinscan HTTP API.

Clients create a scan session, fill in the skin profile, upload or capture
a photo and poll the simulated progress until the results are ready.
Finished analyses are kept in the history database.`,
		Example: `  # Start on the default port 8081
  skinscan serve

  # Start on a custom port with a specific database
  skinscan serve --port 3000 --db ./skinscan.db`,
		RunE: runServe,
	}

	cmd.Flags().IntP("port", "p", 0, "Port to listen on (default 8081)")
	cmd.Flags().String("db", "", "SQLite database path")
	cmd.Flags().String("upload-dir", "", "Directory for uploaded images")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
	}
	if dir, _ := cmd.Flags().GetString("upload-dir"); dir != "" {
		cfg.UploadDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	logger := slog.Default()
	h, err := handlers.New(cfg, store, analysis.New(analysis.WithLogger(logger)), logger)
	if err != nil {
		return err
	}
	defer h.Close()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("skinscan API available", "addr", cfg.Addr(), "db", cfg.DBPath, "uploads", cfg.UploadDir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-cmd.Context().Done():
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "err", err)
			return err
		}
		slog.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
