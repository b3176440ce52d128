package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// StateRepo provides generic persisted key/value settings.
type StateRepo struct {
	db DBTX
}

// NewStateRepo creates a new StateRepo.
func NewStateRepo(db *sql.DB) *StateRepo {
	return &StateRepo{db: db}
}

// WithTx returns a StateRepo bound to the given transaction.
func (r *StateRepo) WithTx(tx *sql.Tx) *StateRepo {
	return &StateRepo{db: tx}
}

// Get gets a state value by key.
// Returns ErrNotFound if the key does not exist.
func (r *StateRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query state: %w", err)
	}
	return value, nil
}

// Set writes a state value, overwriting any existing one.
func (r *StateRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO app_state (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set state: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is a no-op.
func (r *StateRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

// List returns every key/value pair ordered by key.
func (r *StateRepo) List(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM app_state ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query state: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan state: %w", err)
		}
		entries[key] = value
	}
	return entries, rows.Err()
}
