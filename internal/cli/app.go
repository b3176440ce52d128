package cli

import (
	"database/sql"
	"fmt"

	"cardstash/internal/catalog"
	"cardstash/internal/catalogapi"
	"cardstash/internal/config"
	"cardstash/internal/inventory"
	"cardstash/internal/search"
	"cardstash/internal/storage"
)

// App bundles the opened database and the services every command uses.
type App struct {
	Cfg       *config.Config
	DB        *sql.DB
	Catalog   *catalog.Service
	Inventory *inventory.Service
	Engine    *search.Engine
	State     *storage.StateRepo
	Client    *catalogapi.Client
	Directory *catalogapi.SetDirectory
}

// openApp loads configuration, opens the database, runs migrations, and
// wires the services.
func openApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	state := storage.NewStateRepo(db)
	client := catalogapi.NewClient(cfg.CatalogBaseURL, cfg.CatalogToken)

	return &App{
		Cfg:       cfg,
		DB:        db,
		Catalog:   catalog.NewService(db),
		Inventory: inventory.NewService(db),
		Engine:    search.NewEngine(storage.NewCardRepo(db)),
		State:     state,
		Client:    client,
		Directory: catalogapi.NewSetDirectory(client, state, cfg.DirectoryMaxAge),
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.DB.Close()
}
