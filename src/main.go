package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cancionero/src/features/catalog"
	"cancionero/src/features/config"
	"cancionero/src/features/exporting"
	"cancionero/src/features/hosting"
	"cancionero/src/features/importing"
	"cancionero/src/features/jobs"
	"cancionero/src/features/logging"
	"cancionero/src/features/metrics"
	"cancionero/src/features/migration"
	"cancionero/src/infra/database"
	"cancionero/src/infra/docstore"
	"cancionero/src/infra/legacy"
	"cancionero/src/songs"
)

func main() {
	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	cfg := cfgManager.Get()

	// Pick the catalog backend
	var store songs.Store
	switch cfg.Catalog.Backend {
	case "rest":
		client := docstore.NewClient(cfg.Remote.BaseURL, cfg.Remote.APIKey, time.Duration(cfg.Remote.TimeoutSeconds)*time.Second)
		defer client.Close()
		store = client
	default:
		sqlite, err := database.NewSqliteStore(cfg.Database.Path)
		if err != nil {
			log.Fatalf("failed to open catalog database: %v", err)
		}
		defer sqlite.Close()
		store = sqlite
	}

	readyCtx, cancelReady := context.WithTimeout(context.Background(), 60*time.Second)
	if err := songs.WaitReady(readyCtx, store); err != nil {
		cancelReady()
		log.Fatalf("catalog backend never became ready: %v", err)
	}
	cancelReady()
	slog.Info("Catalog backend ready", "backend", cfg.Catalog.Backend)

	// Move any leftover legacy records into the store
	guard := migration.NewGuard(legacy.NewStore(cfg.Legacy.Path), store)
	if report, err := guard.Run(context.Background()); err != nil {
		slog.Error("Legacy migration failed", "error", err)
	} else if report.LegacyCount > 0 {
		slog.Info("Legacy migration finished",
			"legacy", report.LegacyCount,
			"migrated", report.Migrated,
			"skipped", report.Skipped,
			"failed", report.Failed,
		)
	}

	// Create the catalog service and warm the mirror
	catalogService := catalog.NewService(store)
	if err := catalogService.Load(context.Background()); err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}

	// Create the job service
	jobService := jobs.NewService()

	// Metrics
	var metricsService *metrics.Service
	var importObserver importing.Observer
	if cfg.Metrics.Enabled {
		metricsService = metrics.NewService(catalogService)
		metricsService.Start(cfg.Metrics.Port)
		defer metricsService.Stop()
		importObserver = metricsService
	}

	// Create the importing service
	importingService := importing.NewService(catalogService, cfgManager, jobService, importObserver)
	jobService.RegisterTask("csv_import", importing.NewCSVImportTask(importingService))

	if cfg.Import.AutoStartWatcher {
		if err := importingService.StartWatcher(context.Background()); err != nil {
			slog.Error("Failed to start CSV watcher", "error", err)
		}
		defer importingService.StopWatcher()
	}

	// Create the exporting service. PDF rendering has no backend yet.
	exportingService := exporting.NewService(catalogService, cfgManager, nil)

	// Create and start the Telegram bot if enabled
	if cfg.Telegram.Enabled {
		telegramBot, err := hosting.NewTelegramBot(cfgManager, catalogService)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
		} else {
			go telegramBot.Start()
			defer telegramBot.Stop()
			slog.Info("Telegram bot started")
		}
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, catalogService, importingService, exportingService, jobService)

	go func() {
		slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			slog.Error("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	if err := server.Shutdown(); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
