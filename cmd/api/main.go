package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardstash/internal/catalog"
	"cardstash/internal/catalogapi"
	"cardstash/internal/config"
	"cardstash/internal/http"
	"cardstash/internal/inventory"
	"cardstash/internal/search"
	"cardstash/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", level.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	ctx := context.Background()

	catalogService := catalog.NewService(db)
	inventoryService := inventory.NewService(db)
	engine := search.NewEngine(storage.NewCardRepo(db))
	stateRepo := storage.NewStateRepo(db)
	client := catalogapi.NewClient(cfg.CatalogBaseURL, cfg.CatalogToken)
	directory := catalogapi.NewSetDirectory(client, stateRepo, cfg.DirectoryMaxAge)

	// Bring legacy card rows up to the current derived-field schema before
	// serving searches against them.
	if needed, err := catalogService.NeedsMigration(ctx); err != nil {
		log.Fatalf("Failed to check card schema: %v", err)
	} else if needed {
		updated, err := catalogService.Migrate(ctx)
		if err != nil {
			log.Fatalf("Failed to migrate card schema: %v", err)
		}
		slog.Info("Card schema migrated", "updated", updated)
	}

	router := http.NewRouter(&http.Deps{
		DB:        db,
		Catalog:   catalogService,
		Inventory: inventoryService,
		Engine:    engine,
		State:     stateRepo,
		Client:    client,
		Directory: directory,
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-shutdownCtx.Done():
		slog.Info("Shutting down")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			log.Fatalf("Server shutdown failed: %v", err)
		}
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}
}
