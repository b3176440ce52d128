package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PlanRepo provides methods for durable retrieval plans.
type PlanRepo struct {
	db DBTX
}

// NewPlanRepo creates a new PlanRepo.
func NewPlanRepo(db *sql.DB) *PlanRepo {
	return &PlanRepo{db: db}
}

// WithTx returns a PlanRepo bound to the given transaction.
func (r *PlanRepo) WithTx(tx *sql.Tx) *PlanRepo {
	return &PlanRepo{db: tx}
}

// Insert persists a new retrieval plan.
func (r *PlanRepo) Insert(ctx context.Context, p *RetrievalPlan) error {
	items, err := json.Marshal(p.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal plan items: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO retrieval_plans (id, title, target_location, target_offset,
		 created_at, expires_at, status, items)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.TargetLocation, p.TargetOffset,
		p.CreatedAt, p.ExpiresAt, p.Status, string(items),
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}
	return nil
}

// GetByID gets a plan by id, expired or not.
// Returns ErrNotFound if the plan does not exist.
func (r *PlanRepo) GetByID(ctx context.Context, id string) (*RetrievalPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, target_location, target_offset, created_at, expires_at, status, items
		 FROM retrieval_plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query plan: %w", err)
	}
	return p, nil
}

// ListNonExpired returns plans whose expiry is after now, newest first.
// Expired plans stay retrievable by id until an explicit sweep.
func (r *PlanRepo) ListNonExpired(ctx context.Context, now time.Time) ([]*RetrievalPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, target_location, target_offset, created_at, expires_at, status, items
		 FROM retrieval_plans WHERE expires_at > ? ORDER BY created_at DESC`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []*RetrievalPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// UpdateItems rewrites a plan's item list.
// Returns ErrNotFound if the plan does not exist.
func (r *PlanRepo) UpdateItems(ctx context.Context, id string, items []PlanItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal plan items: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE retrieval_plans SET items = ? WHERE id = ?`, string(data), id)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
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

// Delete removes a plan. Deleting a missing plan is a no-op.
func (r *PlanRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM retrieval_plans WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

// DeleteExpired removes every plan whose expiry is at or before now and
// returns how many were deleted.
func (r *PlanRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM retrieval_plans WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired plans: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return int(n), nil
}

func scanPlan(row rowScanner) (*RetrievalPlan, error) {
	var p RetrievalPlan
	var items string
	err := row.Scan(&p.ID, &p.Title, &p.TargetLocation, &p.TargetOffset,
		&p.CreatedAt, &p.ExpiresAt, &p.Status, &items)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &p.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan items: %w", err)
	}
	return &p, nil
}
