package handlers

import (
	"context"
	"database/sql"
	"testing"

	"cardstash/internal/catalog"
	"cardstash/internal/inventory"
	"cardstash/internal/search"
	"cardstash/internal/storage"
)

// testEnv bundles real services over a temp database for handler tests.
type testEnv struct {
	db        *sql.DB
	catalog   *catalog.Service
	inventory *inventory.Service
	engine    *search.Engine
	state     *storage.StateRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := storage.New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return &testEnv{
		db:        db,
		catalog:   catalog.NewService(db),
		inventory: inventory.NewService(db),
		engine:    search.NewEngine(storage.NewCardRepo(db)),
		state:     storage.NewStateRepo(db),
	}
}

func (e *testEnv) seedCatalog(t *testing.T) {
	t.Helper()
	rows := []catalog.RawCard{
		{ID: 1, Name: "Lightning Bolt", CollectorNumber: "161"},
		{ID: 2, Name: "Lightning Helix", CollectorNumber: "214"},
		{ID: 3, Name: "Counterspell", CollectorNumber: "54"},
	}
	if _, err := e.catalog.PutSet(context.Background(), "LEA", "Alpha", rows); err != nil {
		t.Fatalf("PutSet() error = %v", err)
	}
}

func (e *testEnv) seedInventory(t *testing.T) {
	t.Helper()
	records := []*storage.InventoryRecord{
		{InventoryID: 1, EMID: 1, Name: "Lightning Bolt", Note: "binder1p4"},
		{InventoryID: 2, EMID: 3, Name: "Counterspell", Note: "binder1p5"},
	}
	if _, err := e.inventory.Import(context.Background(), records); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
}
