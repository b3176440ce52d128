package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// DBTX is the subset of *sql.DB and *sql.Tx the repositories need, so a
// repository can be bound to a transaction with WithTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS cards (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			name_lower TEXT NOT NULL,
			name_normalized TEXT NOT NULL,
			search_normalized TEXT NOT NULL,
			first_letter TEXT NOT NULL,
			tokens TEXT NOT NULL DEFAULT '',
			initials TEXT NOT NULL DEFAULT '',
			progressive_initials TEXT NOT NULL DEFAULT '',
			variant_tags TEXT NOT NULL DEFAULT '',
			is_foil_variant INTEGER NOT NULL DEFAULT 0,
			set_code TEXT NOT NULL,
			set_name TEXT NOT NULL,
			collector_number TEXT NOT NULL DEFAULT '',
			rarity TEXT NOT NULL DEFAULT '',
			type_line TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			image_url_back TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_first_letter ON cards(first_letter);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_set_code ON cards(set_code);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_name_lower ON cards(name_lower);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_initials ON cards(initials);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_search_normalized ON cards(search_normalized);`,
		`CREATE TABLE IF NOT EXISTS sets (
			set_code TEXT PRIMARY KEY,
			set_name TEXT NOT NULL,
			card_count INTEGER NOT NULL DEFAULT 0,
			cached_at DATETIME NOT NULL,
			active INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS inventory (
			inventory_id INTEGER PRIMARY KEY,
			emid INTEGER NOT NULL DEFAULT 0,
			name TEXT NOT NULL,
			name_lower TEXT NOT NULL,
			set_code TEXT NOT NULL DEFAULT '',
			set_name TEXT NOT NULL DEFAULT '',
			collector_number TEXT NOT NULL DEFAULT '',
			rarity TEXT NOT NULL DEFAULT '',
			condition TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			foil INTEGER NOT NULL DEFAULT 0,
			note TEXT NOT NULL DEFAULT '',
			note_id TEXT NOT NULL DEFAULT '',
			acquired_price TEXT NOT NULL DEFAULT '',
			date_acquired TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS checkouts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			inventory_id INTEGER NOT NULL,
			emid INTEGER NOT NULL DEFAULT 0,
			card_name TEXT NOT NULL DEFAULT '',
			set_code TEXT NOT NULL DEFAULT '',
			collector_number TEXT NOT NULL DEFAULT '',
			target_location TEXT NOT NULL,
			target_position INTEGER NOT NULL,
			source_location TEXT NOT NULL DEFAULT '',
			source_position INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'out',
			checked_out_at DATETIME NOT NULL,
			checked_in_at DATETIME,
			return_location TEXT NOT NULL DEFAULT '',
			return_position INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_checkouts_status ON checkouts(status);`,
		`CREATE INDEX IF NOT EXISTS idx_checkouts_inventory_id ON checkouts(inventory_id);`,
		`CREATE TABLE IF NOT EXISTS retrieval_plans (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			target_location TEXT NOT NULL,
			target_offset INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'open',
			items TEXT NOT NULL DEFAULT '[]'
		);`,
		`CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
