package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SetRepo provides methods for set-cache metadata operations.
type SetRepo struct {
	db DBTX
}

// NewSetRepo creates a new SetRepo.
func NewSetRepo(db *sql.DB) *SetRepo {
	return &SetRepo{db: db}
}

// WithTx returns a SetRepo bound to the given transaction.
func (r *SetRepo) WithTx(tx *sql.Tx) *SetRepo {
	return &SetRepo{db: tx}
}

// Upsert inserts or replaces a set cache entry.
func (r *SetRepo) Upsert(ctx context.Context, e *SetCacheEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sets (set_code, set_name, card_count, cached_at, active)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (set_code) DO UPDATE SET
		 set_name = excluded.set_name, card_count = excluded.card_count,
		 cached_at = excluded.cached_at, active = excluded.active`,
		e.SetCode, e.SetName, e.CardCount, e.CachedAt, e.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert set: %w", err)
	}
	return nil
}

// Get gets a set cache entry by code.
// Returns ErrNotFound if the set is not cached.
func (r *SetRepo) Get(ctx context.Context, setCode string) (*SetCacheEntry, error) {
	var e SetCacheEntry
	err := r.db.QueryRowContext(ctx,
		`SELECT set_code, set_name, card_count, cached_at, active FROM sets WHERE set_code = ?`,
		setCode,
	).Scan(&e.SetCode, &e.SetName, &e.CardCount, &e.CachedAt, &e.Active)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query set: %w", err)
	}
	return &e, nil
}

// List returns every cached set ordered by code.
func (r *SetRepo) List(ctx context.Context) ([]*SetCacheEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT set_code, set_name, card_count, cached_at, active FROM sets ORDER BY set_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sets: %w", err)
	}
	defer rows.Close()

	var entries []*SetCacheEntry
	for rows.Next() {
		var e SetCacheEntry
		if err := rows.Scan(&e.SetCode, &e.SetName, &e.CardCount, &e.CachedAt, &e.Active); err != nil {
			return nil, fmt.Errorf("failed to scan set: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// ActiveCodes returns the codes of sets currently in search scope.
func (r *SetRepo) ActiveCodes(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT set_code FROM sets WHERE active != 0 ORDER BY set_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active sets: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan set code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// SetActive toggles a set's search-scope flag.
// Returns ErrNotFound if the set is not cached.
func (r *SetRepo) SetActive(ctx context.Context, setCode string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sets SET active = ? WHERE set_code = ?`, active, setCode)
	if err != nil {
		return fmt.Errorf("failed to update set: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a set cache entry.
func (r *SetRepo) Delete(ctx context.Context, setCode string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sets WHERE set_code = ?`, setCode); err != nil {
		return fmt.Errorf("failed to delete set: %w", err)
	}
	return nil
}

// DeleteAll empties the set table.
func (r *SetRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sets`); err != nil {
		return fmt.Errorf("failed to delete sets: %w", err)
	}
	return nil
}
