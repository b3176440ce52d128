package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const checkoutColumns = `id, inventory_id, emid, card_name, set_code, collector_number,
	target_location, target_position, source_location, source_position,
	status, checked_out_at, checked_in_at, return_location, return_position`

// CheckoutRepo provides methods for the checkout ledger.
type CheckoutRepo struct {
	db DBTX
}

// NewCheckoutRepo creates a new CheckoutRepo.
func NewCheckoutRepo(db *sql.DB) *CheckoutRepo {
	return &CheckoutRepo{db: db}
}

// WithTx returns a CheckoutRepo bound to the given transaction.
func (r *CheckoutRepo) WithTx(tx *sql.Tx) *CheckoutRepo {
	return &CheckoutRepo{db: tx}
}

// Insert creates a new checkout record and assigns its id.
func (r *CheckoutRepo) Insert(ctx context.Context, rec *CheckoutRecord) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO checkouts (inventory_id, emid, card_name, set_code, collector_number,
		 target_location, target_position, source_location, source_position,
		 status, checked_out_at, return_location, return_position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.InventoryID, rec.EMID, rec.CardName, rec.SetCode, rec.CollectorNumber,
		rec.TargetLocation, rec.TargetPosition, rec.SourceLocation, rec.SourcePosition,
		rec.Status, rec.CheckedOutAt, rec.ReturnLocation, rec.ReturnPosition,
	)
	if err != nil {
		return fmt.Errorf("failed to insert checkout: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read checkout id: %w", err)
	}
	rec.ID = id
	return nil
}

// GetByID gets a checkout record by id.
// Returns ErrNotFound if the record does not exist.
func (r *CheckoutRepo) GetByID(ctx context.Context, id int64) (*CheckoutRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+checkoutColumns+` FROM checkouts WHERE id = ?`, id)
	rec, err := scanCheckout(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query checkout: %w", err)
	}
	return rec, nil
}

// MarkIn flips one record from out to in, stamping the check-in time and the
// optional return location. Records already in, or unknown ids, are left
// untouched; the return value reports whether a row actually changed.
func (r *CheckoutRepo) MarkIn(ctx context.Context, id int64, at time.Time, returnLocation string, returnPosition int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE checkouts
		 SET status = ?, checked_in_at = ?, return_location = ?, return_position = ?
		 WHERE id = ? AND status = ?`,
		CheckoutStatusIn, at, returnLocation, returnPosition, id, CheckoutStatusOut,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update checkout: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// CloseOpenByInventory flips any currently-out record for the given
// inventory item to in. Re-checkout closes the prior ledger entry so at most
// one record per item is ever out.
func (r *CheckoutRepo) CloseOpenByInventory(ctx context.Context, inventoryID int64, at time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE checkouts SET status = ?, checked_in_at = ?
		 WHERE inventory_id = ? AND status = ?`,
		CheckoutStatusIn, at, inventoryID, CheckoutStatusOut,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to close open checkouts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return int(n), nil
}

// ListOpenGroups groups currently-out records by target location.
func (r *CheckoutRepo) ListOpenGroups(ctx context.Context) ([]OpenGroup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT target_location, COUNT(*), MIN(checked_out_at)
		 FROM checkouts WHERE status = ?
		 GROUP BY target_location ORDER BY target_location`,
		CheckoutStatusOut,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query open groups: %w", err)
	}
	defer rows.Close()

	var groups []OpenGroup
	for rows.Next() {
		var g OpenGroup
		if err := rows.Scan(&g.Location, &g.Count, &g.EarliestCheckedOutAt); err != nil {
			return nil, fmt.Errorf("failed to scan open group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ListOpenByLocation returns currently-out records for one target location,
// ordered by target position.
func (r *CheckoutRepo) ListOpenByLocation(ctx context.Context, location string) ([]*CheckoutRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+checkoutColumns+` FROM checkouts
		 WHERE status = ? AND target_location = ?
		 ORDER BY target_position, id`,
		CheckoutStatusOut, location,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query open checkouts: %w", err)
	}
	defer rows.Close()

	var recs []*CheckoutRecord
	for rows.Next() {
		rec, err := scanCheckout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkout: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// OpenLocationMaxPositions returns, for each target location with open
// records, the highest target position in use.
func (r *CheckoutRepo) OpenLocationMaxPositions(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT target_location, MAX(target_position)
		 FROM checkouts WHERE status = ? GROUP BY target_location`,
		CheckoutStatusOut,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query open locations: %w", err)
	}
	defer rows.Close()

	positions := make(map[string]int)
	for rows.Next() {
		var location string
		var max int
		if err := rows.Scan(&location, &max); err != nil {
			return nil, fmt.Errorf("failed to scan open location: %w", err)
		}
		positions[location] = max
	}
	return positions, rows.Err()
}

func scanCheckout(row rowScanner) (*CheckoutRecord, error) {
	var rec CheckoutRecord
	var checkedIn sql.NullTime
	err := row.Scan(
		&rec.ID, &rec.InventoryID, &rec.EMID, &rec.CardName, &rec.SetCode, &rec.CollectorNumber,
		&rec.TargetLocation, &rec.TargetPosition, &rec.SourceLocation, &rec.SourcePosition,
		&rec.Status, &rec.CheckedOutAt, &checkedIn, &rec.ReturnLocation, &rec.ReturnPosition,
	)
	if err != nil {
		return nil, err
	}
	if checkedIn.Valid {
		t := checkedIn.Time
		rec.CheckedInAt = &t
	}
	return &rec, nil
}
