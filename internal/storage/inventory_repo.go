package storage

import (
	"context"
	"database/sql"
	"fmt"
)

const inventoryColumns = `inventory_id, emid, name, name_lower, set_code, set_name,
	collector_number, rarity, condition, language, foil, note, note_id,
	acquired_price, date_acquired`

// InventoryRepo provides methods for owned-copy operations.
type InventoryRepo struct {
	db DBTX
}

// NewInventoryRepo creates a new InventoryRepo.
func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

// WithTx returns an InventoryRepo bound to the given transaction.
func (r *InventoryRepo) WithTx(tx *sql.Tx) *InventoryRepo {
	return &InventoryRepo{db: tx}
}

// Insert adds one inventory record.
func (r *InventoryRepo) Insert(ctx context.Context, rec *InventoryRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inventory (`+inventoryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (inventory_id) DO UPDATE SET
		 emid = excluded.emid, name = excluded.name, name_lower = excluded.name_lower,
		 set_code = excluded.set_code, set_name = excluded.set_name,
		 collector_number = excluded.collector_number, rarity = excluded.rarity,
		 condition = excluded.condition, language = excluded.language,
		 foil = excluded.foil, note = excluded.note, note_id = excluded.note_id,
		 acquired_price = excluded.acquired_price, date_acquired = excluded.date_acquired`,
		rec.InventoryID, rec.EMID, rec.Name, rec.NameLower, rec.SetCode, rec.SetName,
		rec.CollectorNumber, rec.Rarity, rec.Condition, rec.Language, rec.Foil,
		rec.Note, rec.NoteID, rec.AcquiredPrice, rec.DateAcquired,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inventory record: %w", err)
	}
	return nil
}

// DeleteAll empties the inventory table. Used by bulk import, which replaces
// the whole inventory in one transaction.
func (r *InventoryRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM inventory`); err != nil {
		return fmt.Errorf("failed to delete inventory: %w", err)
	}
	return nil
}

// GetByID gets an inventory record by id.
// Returns ErrNotFound if the record does not exist.
func (r *InventoryRepo) GetByID(ctx context.Context, inventoryID int64) (*InventoryRecord, error) {
	var rec InventoryRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT `+inventoryColumns+` FROM inventory WHERE inventory_id = ?`, inventoryID,
	).Scan(
		&rec.InventoryID, &rec.EMID, &rec.Name, &rec.NameLower, &rec.SetCode, &rec.SetName,
		&rec.CollectorNumber, &rec.Rarity, &rec.Condition, &rec.Language, &rec.Foil,
		&rec.Note, &rec.NoteID, &rec.AcquiredPrice, &rec.DateAcquired,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory record: %w", err)
	}
	return &rec, nil
}

// UpdateNote rewrites the location note of one record.
// Returns ErrNotFound if the record does not exist.
func (r *InventoryRepo) UpdateNote(ctx context.Context, inventoryID int64, note string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inventory SET note = ? WHERE inventory_id = ?`, note, inventoryID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
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

// SetNoteID stores the external note id for one record. The value is opaque
// to the store; it is supplied by the remote synchronization layer.
func (r *InventoryRepo) SetNoteID(ctx context.Context, inventoryID int64, noteID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inventory SET note_id = ? WHERE inventory_id = ?`, noteID, inventoryID)
	if err != nil {
		return fmt.Errorf("failed to update note id: %w", err)
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

// Count returns the number of inventory records.
func (r *InventoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count inventory: %w", err)
	}
	return n, nil
}

// ListNotes returns every non-empty note. Location discovery parses these
// incrementally rather than loading full records.
func (r *InventoryRepo) ListNotes(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT note FROM inventory WHERE note != ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []string
	for rows.Next() {
		var note string
		if err := rows.Scan(&note); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
