package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuuchan-san/soundcloud-downloader/application/cleanup"
	"github.com/yuuchan-san/soundcloud-downloader/application/download"
	"github.com/yuuchan-san/soundcloud-downloader/domain/extraction"
	"github.com/yuuchan-san/soundcloud-downloader/infrastructure/storage"
	"github.com/yuuchan-san/soundcloud-downloader/infrastructure/web"
	"github.com/yuuchan-san/soundcloud-downloader/infrastructure/ytdlp"
)

var serveDebug bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP download service",
	Long: `Start the HTTP API.

On startup the storage root is created if needed and files older than the
retention window are swept. The same sweep runs before every download
request, so staged files never outlive the window by much.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "enable verbose HTTP logging")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	logger := slog.Default()

	store := storage.NewDirectory(cfg.Storage.Root)
	if err := store.EnsureRoot(); err != nil {
		return err
	}

	extractor := ytdlp.NewExtractor(ytdlp.WithBinaryPath(cfg.YtDlp.Path))
	if err := extractor.VerifyInstalled(cmd.Context()); err != nil {
		return err
	}

	cleaner := cleanup.NewService(store, logger)
	downloads := download.NewService(
		extractor,
		store,
		cleaner,
		extraction.Policy{MaxSourceBytes: cfg.Admission.MaxSourceBytes},
		cfg.Retention(),
		cfg.Audio.Codec,
		cfg.Audio.Quality,
		logger,
	)

	// Startup sweep: reclaim anything left behind by a previous run
	if result, err := cleaner.SweepOlderThan(cfg.Retention()); err != nil {
		logger.Warn("startup sweep failed", "error", err)
	} else if result.Count() > 0 {
		logger.Info("startup sweep", "deleted", result.Count())
	}

	server := web.NewServer(
		web.ServerConfig{Addr: cfg.Addr(), Debug: serveDebug},
		downloads,
		cleaner,
		store,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr(), "storage", cfg.Storage.Root)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
