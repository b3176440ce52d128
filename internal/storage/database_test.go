package storage

import (
	"database/sql"
	"testing"
)

// testDB opens a fresh migrated database under t.TempDir.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("New() expected error for invalid path")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testDB(t)

	// Running migrations again must not fail or drop data.
	if _, err := db.Exec(`INSERT INTO app_state (key, value) VALUES ('k', 'v')`); err != nil {
		t.Fatalf("insert error = %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	var value string
	if err := db.QueryRow(`SELECT value FROM app_state WHERE key = 'k'`).Scan(&value); err != nil {
		t.Fatalf("select error = %v", err)
	}
	if value != "v" {
		t.Errorf("value = %q, want %q", value, "v")
	}
}
