package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"homesnacks-cycle/config"
	"homesnacks-cycle/cycle"
	"homesnacks-cycle/services"
	"homesnacks-cycle/storage"
	"homesnacks-cycle/utils"
)

var (
	logger = utils.NewLogger()
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "homesnacks-cycle",
	Short:         "Run the HomeSnacks listing data cycle",
	Long:          `Ingests staged MLS feed rows, normalises them into canonical properties and renders the static listings site.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger.SetDebug(cfg.Debug)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

// openStore connects, migrates and wraps the configured database.
func openStore(ctx context.Context) (*storage.SQLStore, error) {
	db, err := storage.Open(ctx, cfg.DBDriver, cfg.DSN(), storage.DefaultRetry(cfg.DBConnectRetries, logger))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DBDriver, err)
	}
	if err := storage.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return storage.NewSQLStore(db), nil
}

func templateFS() fs.FS {
	if cfg.TemplateDir == "" {
		return nil
	}
	return os.DirFS(cfg.TemplateDir)
}

// buildStages wires every stage body against store.
func buildStages(ctx context.Context, store *storage.SQLStore, warnings storage.WarningWriter) ([]cycle.Stage, error) {
	sources, err := config.LoadSources(cfg.MLSSourcesFile)
	if err != nil {
		return nil, err
	}

	renderer, err := services.NewRenderer(store, services.NewNearbyResolver(store, cfg.NearbyLimit), templateFS(),
		services.RenderConfig{
			OutputDir:        cfg.OutputDir,
			HomePageFile:     cfg.HomePageFile,
			PhotoBaseURL:     cfg.PhotoBaseURL,
			CityPageSize:     cfg.CityPageSize,
			DetailBatchSize:  cfg.DetailBatchSize,
			TopCityLimit:     cfg.TopCityLimit,
			CarouselLimit:    cfg.CarouselLimit,
			CarouselMinPrice: cfg.CarouselMinPrice,
		}, logger)
	if err != nil {
		return nil, err
	}

	cleanup := &cycle.CleanupStage{
		Site:      store,
		OutputDir: cfg.OutputDir,
		Prune:     cfg.PruneStalePages,
		Prefix:    cfg.Publish.Prefix,
		Retry:     &utils.RetryConfig{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, Logger: logger},
	}
	if cfg.Publish.Enabled() {
		pub, err := storage.NewMinioPublisher(ctx, cfg.Publish)
		if err != nil {
			return nil, err
		}
		cleanup.Publisher = pub
	}

	return []cycle.Stage{
		&cycle.PrepareStage{MLS: store, Sources: sources},
		&cycle.DownloadStage{MLS: store, Staging: store},
		&cycle.ConvertStage{
			Staging:    store,
			Normalizer: services.NewNormalizer(logger),
			Reconciler: services.NewReconciler(store, logger),
			Warnings:   warnings,
		},
		&cycle.GenerateStage{Renderer: renderer},
		cleanup,
	}, nil
}
