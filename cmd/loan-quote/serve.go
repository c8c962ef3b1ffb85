package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/design-loan-quote/internal/catalog"
	"github.com/iwvelando/design-loan-quote/internal/config"
	"github.com/iwvelando/design-loan-quote/internal/quote"
	"github.com/iwvelando/design-loan-quote/internal/server"
	"github.com/iwvelando/design-loan-quote/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	serveConfigPath string
	serveAddress    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the design catalog and quotation API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, serveConfigPath, serveAddress)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", constants.DefaultServerConfigFile, "path to server configuration file")
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "listen address override")
}

func runServe(ctx context.Context, configPath, address string) error {
	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if address != "" {
		cfg.Address = address
	}

	logger, err := initializeLogger(cfg.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	repo, err := catalog.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to open design repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("failed to close design repository",
				zap.String("op", "main.runServe"),
				zap.Error(err),
			)
		}
	}()

	if cfg.CatalogFile != "" {
		if err := seedCatalog(ctx, logger, repo, cfg.CatalogFile); err != nil {
			return err
		}
	}

	limiter := server.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.WindowDuration())
	defer limiter.Stop()

	quotes := quote.NewService(repo, quote.NewBuilder(logger), cfg.PreviewRows)
	handler := server.NewHandler(logger, repo, quotes, server.Options{
		MaxBodySize:    cfg.BodySizeBytes(),
		Limiter:        limiter,
		CurrencySymbol: cfg.CurrencySymbol,
		Version:        version,
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("op", "main.runServe"),
			zap.String("address", cfg.Address),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeoutSeconds*time.Second)
		defer cancel()

		logger.Info("shutting down",
			zap.String("op", "main.runServe"),
		)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// seedCatalog saves the designs of a catalog file that the repository does
// not already hold.
func seedCatalog(ctx context.Context, logger *zap.Logger, repo catalog.Repository, path string) error {
	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog file %s: %w", path, err)
	}

	warnings, err := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Catalog warning: "+warning,
			zap.String("op", "main.seedCatalog"),
		)
	}
	if err != nil {
		return err
	}

	seeded, err := catalog.Seed(ctx, repo, conf.Designs)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	logger.Info("seeded catalog",
		zap.String("op", "main.seedCatalog"),
		zap.String("file", path),
		zap.Int("designs", seeded),
	)
	return nil
}
