// Package inventory owns the user's physical copies, the checkout ledger,
// and the retrieval plans generated when items leave storage.
package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"cardstash/internal/storage"
)

// PlanTTL is how long a retrieval plan stays visible in listings.
const PlanTTL = 30 * 24 * time.Hour

// ValidationError reports invalid caller input on a mutating operation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Service provides inventory, checkout, and retrieval-plan operations.
// Batch mutations run in one transaction; a concurrent reader never sees a
// partially applied checkout.
type Service struct {
	db        *sql.DB
	inv       *storage.InventoryRepo
	checkouts *storage.CheckoutRepo
	plans     *storage.PlanRepo
	now       func() time.Time
	logger    *slog.Logger
}

// NewService creates an inventory service.
func NewService(db *sql.DB) *Service {
	return &Service{
		db:        db,
		inv:       storage.NewInventoryRepo(db),
		checkouts: storage.NewCheckoutRepo(db),
		plans:     storage.NewPlanRepo(db),
		now:       time.Now,
		logger:    slog.Default(),
	}
}

// Import replaces the whole inventory with the given records, atomically.
// Returns the number of records imported.
func (s *Service) Import(ctx context.Context, records []*storage.InventoryRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	inv := s.inv.WithTx(tx)
	if err := inv.DeleteAll(ctx); err != nil {
		return 0, err
	}
	for _, rec := range records {
		if rec.NameLower == "" {
			rec.NameLower = strings.ToLower(rec.Name)
		}
		if err := inv.Insert(ctx, rec); err != nil {
			return 0, fmt.Errorf("failed to import record %d: %w", rec.InventoryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	s.logger.InfoContext(ctx, "inventory imported", "records", len(records))
	return len(records), nil
}

// Get gets one inventory record by id.
func (s *Service) Get(ctx context.Context, inventoryID int64) (*storage.InventoryRecord, error) {
	return s.inv.GetByID(ctx, inventoryID)
}

// CheckoutResult carries the ledger entries and the retrieval plan created
// by one checkout batch.
type CheckoutResult struct {
	Checkouts []*storage.CheckoutRecord
	PlanID    string
}

// Checkout relocates the given inventory items to a target location,
// assigning positions targetOffset, targetOffset+1, ... in batch order.
// Each item's note is rewritten optimistically; the prior note supplies the
// retrieval plan's pick location. An item already checked out has its open
// ledger entry closed before the new one is created. The batch and its plan
// commit atomically; an unknown inventory id fails the whole batch.
func (s *Service) Checkout(ctx context.Context, inventoryIDs []int64, targetLocation string, targetOffset int) (*CheckoutResult, error) {
	if strings.TrimSpace(targetLocation) == "" {
		return nil, &ValidationError{Field: "target_location", Message: "cannot be empty"}
	}
	if len(inventoryIDs) == 0 {
		return nil, &ValidationError{Field: "inventory_ids", Message: "cannot be empty"}
	}

	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	inv := s.inv.WithTx(tx)
	checkouts := s.checkouts.WithTx(tx)

	result := &CheckoutResult{}
	items := make([]storage.PlanItem, 0, len(inventoryIDs))

	for i, inventoryID := range inventoryIDs {
		rec, err := inv.GetByID(ctx, inventoryID)
		if err != nil {
			return nil, fmt.Errorf("checkout of inventory %d: %w", inventoryID, err)
		}

		sourceLocation, sourcePosition, _ := ParseNote(rec.Note)

		// Close any prior open entry so at most one record per item is out.
		if _, err := checkouts.CloseOpenByInventory(ctx, inventoryID, now); err != nil {
			return nil, err
		}

		position := targetOffset + i
		checkout := &storage.CheckoutRecord{
			InventoryID:     inventoryID,
			EMID:            rec.EMID,
			CardName:        rec.Name,
			SetCode:         rec.SetCode,
			CollectorNumber: rec.CollectorNumber,
			TargetLocation:  targetLocation,
			TargetPosition:  position,
			SourceLocation:  sourceLocation,
			SourcePosition:  sourcePosition,
			Status:          storage.CheckoutStatusOut,
			CheckedOutAt:    now,
		}
		if err := checkouts.Insert(ctx, checkout); err != nil {
			return nil, err
		}
		result.Checkouts = append(result.Checkouts, checkout)

		if err := inv.UpdateNote(ctx, inventoryID, FormatNote(targetLocation, position)); err != nil {
			return nil, err
		}

		items = append(items, storage.PlanItem{
			EMID:            rec.EMID,
			InventoryID:     inventoryID,
			CardName:        rec.Name,
			SetCode:         rec.SetCode,
			CollectorNumber: rec.CollectorNumber,
			CurrentLocation: sourceLocation,
			CurrentPosition: sourcePosition,
		})
	}

	plan := &storage.RetrievalPlan{
		ID:             uuid.New().String(),
		Title:          now.Format("2006-01-02") + " " + targetLocation,
		TargetLocation: targetLocation,
		TargetOffset:   targetOffset,
		CreatedAt:      now,
		ExpiresAt:      now.Add(PlanTTL),
		Status:         "open",
		Items:          items,
	}
	if err := s.plans.WithTx(tx).Insert(ctx, plan); err != nil {
		return nil, err
	}
	result.PlanID = plan.ID

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	s.logger.InfoContext(ctx, "batch checked out",
		"items", len(inventoryIDs), "target", targetLocation, "plan_id", plan.ID)
	return result, nil
}

// Checkin closes the given ledger entries, recording the return location if
// supplied. Ids already in, or unknown, are silently skipped; the return
// value counts the records actually updated.
func (s *Service) Checkin(ctx context.Context, checkoutIDs []int64, returnLocation string, returnPosition int) (int, error) {
	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	checkouts := s.checkouts.WithTx(tx)
	updated := 0
	for _, id := range checkoutIDs {
		changed, err := checkouts.MarkIn(ctx, id, now, returnLocation, returnPosition)
		if err != nil {
			return 0, err
		}
		if changed {
			updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit checkin: %w", err)
	}

	s.logger.InfoContext(ctx, "batch checked in", "requested", len(checkoutIDs), "updated", updated)
	return updated, nil
}

// ListOpenGroups summarizes currently checked-out records per target
// location.
func (s *Service) ListOpenGroups(ctx context.Context) ([]storage.OpenGroup, error) {
	return s.checkouts.ListOpenGroups(ctx)
}

// ListOpenByLocation returns currently checked-out records for one target
// location.
func (s *Service) ListOpenByLocation(ctx context.Context, location string) ([]*storage.CheckoutRecord, error) {
	return s.checkouts.ListOpenByLocation(ctx, location)
}

// ListLocations discovers known location tags with the highest position
// observed per tag, merging note-derived locations with open-checkout
// targets. Sorted by tag.
func (s *Service) ListLocations(ctx context.Context) ([]storage.Location, error) {
	notes, err := s.inv.ListNotes(ctx)
	if err != nil {
		return nil, err
	}

	maxByTag := make(map[string]int)
	for _, note := range notes {
		tag, position, ok := ParseNote(note)
		if !ok {
			continue
		}
		if position > maxByTag[tag] {
			maxByTag[tag] = position
		}
	}

	open, err := s.checkouts.OpenLocationMaxPositions(ctx)
	if err != nil {
		return nil, err
	}
	for tag, position := range open {
		if position > maxByTag[tag] {
			maxByTag[tag] = position
		}
	}

	locations := make([]storage.Location, 0, len(maxByTag))
	for tag, max := range maxByTag {
		locations = append(locations, storage.Location{Tag: tag, MaxPosition: max})
	}
	sort.Slice(locations, func(i, j int) bool {
		return locations[i].Tag < locations[j].Tag
	})
	return locations, nil
}

// SetNoteIDs stores external note ids delivered by the remote
// synchronization layer. Unknown inventory ids are skipped. Returns how
// many records were updated.
func (s *Service) SetNoteIDs(ctx context.Context, mapping map[int64]string) (int, error) {
	updated := 0
	for inventoryID, noteID := range mapping {
		err := s.inv.SetNoteID(ctx, inventoryID, noteID)
		if err == storage.ErrNotFound {
			continue
		}
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// Plan gets one retrieval plan by id, expired or not.
func (s *Service) Plan(ctx context.Context, id string) (*storage.RetrievalPlan, error) {
	return s.plans.GetByID(ctx, id)
}

// ListPlans returns non-expired plans, newest first.
func (s *Service) ListPlans(ctx context.Context) ([]*storage.RetrievalPlan, error) {
	return s.plans.ListNonExpired(ctx, s.now())
}

// ToggleItemChecked marks one plan item as retrieved (or not).
func (s *Service) ToggleItemChecked(ctx context.Context, planID string, itemIndex int, checked bool) error {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(plan.Items) {
		return &ValidationError{Field: "item_index", Message: "out of range"}
	}
	plan.Items[itemIndex].Checked = checked
	return s.plans.UpdateItems(ctx, planID, plan.Items)
}

// DeletePlan removes a plan explicitly.
func (s *Service) DeletePlan(ctx context.Context, id string) error {
	return s.plans.Delete(ctx, id)
}

// SweepExpiredPlans deletes plans past their expiry and returns the count.
func (s *Service) SweepExpiredPlans(ctx context.Context) (int, error) {
	return s.plans.DeleteExpired(ctx, s.now())
}
