package inventory

import (
	"context"
	"testing"
	"time"

	"cardstash/internal/storage"
)

func testService(t *testing.T) *Service {
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
	return NewService(db)
}

func seedInventory(t *testing.T, svc *Service, records ...*storage.InventoryRecord) {
	t.Helper()
	if _, err := svc.Import(context.Background(), records); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
}

func TestService_Import_ReplacesInventory(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	seedInventory(t, svc,
		&storage.InventoryRecord{InventoryID: 1, Name: "Bolt"},
		&storage.InventoryRecord{InventoryID: 2, Name: "Counterspell"},
	)

	// A second import replaces everything from the first.
	seedInventory(t, svc, &storage.InventoryRecord{InventoryID: 3, Name: "Shock"})

	if _, err := svc.Get(ctx, 1); err != storage.ErrNotFound {
		t.Errorf("Get(1) error = %v, want ErrNotFound after re-import", err)
	}
	got, err := svc.Get(ctx, 3)
	if err != nil {
		t.Fatalf("Get(3) error = %v", err)
	}
	if got.NameLower != "shock" {
		t.Errorf("NameLower = %q, want filled on import", got.NameLower)
	}
}

func TestService_Checkout(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedInventory(t, svc,
		&storage.InventoryRecord{InventoryID: 1, EMID: 10, Name: "Lightning Bolt", Note: "binder1p4"},
		&storage.InventoryRecord{InventoryID: 2, EMID: 20, Name: "Counterspell", Note: "binder2p9"},
	)

	result, err := svc.Checkout(ctx, []int64{1, 2}, "deck1", 1)
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if len(result.Checkouts) != 2 {
		t.Fatalf("Checkout() created %d records, want 2", len(result.Checkouts))
	}

	// Notes are rewritten to sequential target positions.
	for i, want := range []string{"deck1p1", "deck1p2"} {
		rec, err := svc.Get(ctx, int64(i+1))
		if err != nil {
			t.Fatalf("Get(%d) error = %v", i+1, err)
		}
		if rec.Note != want {
			t.Errorf("Note[%d] = %q, want %q", i+1, rec.Note, want)
		}
	}

	// The ledger captures where each item came from.
	first := result.Checkouts[0]
	if first.SourceLocation != "binder1" || first.SourcePosition != 4 {
		t.Errorf("source = %s p%d, want binder1 p4", first.SourceLocation, first.SourcePosition)
	}

	// The retrieval plan mirrors the batch and expires after the TTL.
	plan, err := svc.Plan(ctx, result.PlanID)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(plan.Items) != 2 {
		t.Errorf("plan has %d items, want 2", len(plan.Items))
	}
	if plan.Items[1].CurrentLocation != "binder2" || plan.Items[1].CurrentPosition != 9 {
		t.Errorf("plan item 1 = %+v", plan.Items[1])
	}
	if plan.Title != "2026-03-01 deck1" {
		t.Errorf("plan title = %q", plan.Title)
	}
	if !plan.ExpiresAt.Equal(now.Add(PlanTTL)) {
		t.Errorf("ExpiresAt = %v, want now+TTL", plan.ExpiresAt)
	}
}

func TestService_Checkout_Validation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if _, err := svc.Checkout(ctx, []int64{1}, "  ", 1); err == nil {
		t.Error("Checkout() with blank target expected validation error")
	}
	if _, err := svc.Checkout(ctx, nil, "deck1", 1); err == nil {
		t.Error("Checkout() with no ids expected validation error")
	}

	// An unknown inventory id fails the whole batch: nothing is recorded.
	seedInventory(t, svc, &storage.InventoryRecord{InventoryID: 1, Name: "Bolt", Note: "binder1p1"})
	if _, err := svc.Checkout(ctx, []int64{1, 999}, "deck1", 1); err == nil {
		t.Fatal("Checkout() with unknown id expected error")
	}
	rec, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Note != "binder1p1" {
		t.Errorf("Note = %q after failed batch, want untouched %q", rec.Note, "binder1p1")
	}
	groups, err := svc.ListOpenGroups(ctx)
	if err != nil {
		t.Fatalf("ListOpenGroups() error = %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("open groups after failed batch = %v, want none", groups)
	}
}

func TestService_Checkout_ReCheckoutClosesPrior(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	seedInventory(t, svc, &storage.InventoryRecord{InventoryID: 1, Name: "Bolt", Note: "binder1p1"})

	if _, err := svc.Checkout(ctx, []int64{1}, "deck1", 1); err != nil {
		t.Fatalf("first Checkout() error = %v", err)
	}
	if _, err := svc.Checkout(ctx, []int64{1}, "deck2", 1); err != nil {
		t.Fatalf("second Checkout() error = %v", err)
	}

	groups, err := svc.ListOpenGroups(ctx)
	if err != nil {
		t.Fatalf("ListOpenGroups() error = %v", err)
	}
	// Only the second checkout remains open.
	if len(groups) != 1 || groups[0].Location != "deck2" || groups[0].Count != 1 {
		t.Errorf("ListOpenGroups() = %+v, want one open record at deck2", groups)
	}

	// The second checkout's source is the first checkout's target.
	open, err := svc.ListOpenByLocation(ctx, "deck2")
	if err != nil {
		t.Fatalf("ListOpenByLocation() error = %v", err)
	}
	if len(open) != 1 || open[0].SourceLocation != "deck1" || open[0].SourcePosition != 1 {
		t.Errorf("open record = %+v, want source deck1 p1", open[0])
	}
}

func TestService_Checkin(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	seedInventory(t, svc,
		&storage.InventoryRecord{InventoryID: 1, Name: "Bolt", Note: "binder1p1"},
		&storage.InventoryRecord{InventoryID: 2, Name: "Counterspell", Note: "binder1p2"},
	)
	result, err := svc.Checkout(ctx, []int64{1, 2}, "deck1", 1)
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	ids := []int64{result.Checkouts[0].ID, result.Checkouts[1].ID}
	updated, err := svc.Checkin(ctx, ids, "binder1", 1)
	if err != nil {
		t.Fatalf("Checkin() error = %v", err)
	}
	if updated != 2 {
		t.Errorf("Checkin() = %d, want 2", updated)
	}

	// Check-in is idempotent: a repeat updates nothing.
	updated, err = svc.Checkin(ctx, ids, "", 0)
	if err != nil {
		t.Fatalf("second Checkin() error = %v", err)
	}
	if updated != 0 {
		t.Errorf("repeat Checkin() = %d, want 0", updated)
	}
}

func TestService_ListLocations(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	seedInventory(t, svc,
		&storage.InventoryRecord{InventoryID: 1, Name: "A", Note: "binder1p7"},
		&storage.InventoryRecord{InventoryID: 2, Name: "B", Note: "binder1p3"},
		&storage.InventoryRecord{InventoryID: 3, Name: "C", Note: "shelf2p1"},
		&storage.InventoryRecord{InventoryID: 4, Name: "D", Note: "not a location"},
	)

	locations, err := svc.ListLocations(ctx)
	if err != nil {
		t.Fatalf("ListLocations() error = %v", err)
	}
	if len(locations) != 2 {
		t.Fatalf("ListLocations() = %+v, want 2 tags", locations)
	}
	if locations[0].Tag != "binder1" || locations[0].MaxPosition != 7 {
		t.Errorf("locations[0] = %+v, want binder1 max 7", locations[0])
	}
	if locations[1].Tag != "shelf2" || locations[1].MaxPosition != 1 {
		t.Errorf("locations[1] = %+v", locations[1])
	}

	// Open checkout targets count as locations too.
	if _, err := svc.Checkout(ctx, []int64{3}, "deck9", 5); err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	locations, err = svc.ListLocations(ctx)
	if err != nil {
		t.Fatalf("ListLocations() error = %v", err)
	}
	found := false
	for _, l := range locations {
		if l.Tag == "deck9" && l.MaxPosition == 5 {
			found = true
		}
	}
	if !found {
		t.Errorf("ListLocations() = %+v, want deck9 max 5 included", locations)
	}
}

func TestService_PlanLifecycle(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedInventory(t, svc, &storage.InventoryRecord{InventoryID: 1, Name: "Bolt", Note: "binder1p1"})
	result, err := svc.Checkout(ctx, []int64{1}, "deck1", 1)
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if err := svc.ToggleItemChecked(ctx, result.PlanID, 0, true); err != nil {
		t.Fatalf("ToggleItemChecked() error = %v", err)
	}
	plan, err := svc.Plan(ctx, result.PlanID)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if !plan.Items[0].Checked {
		t.Error("item not marked checked")
	}

	if err := svc.ToggleItemChecked(ctx, result.PlanID, 5, true); err == nil {
		t.Error("ToggleItemChecked() out of range expected validation error")
	}

	// Past the TTL the plan disappears from listings but stays addressable
	// until swept.
	svc.now = func() time.Time { return now.Add(PlanTTL + time.Hour) }

	plans, err := svc.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans() error = %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("ListPlans() after expiry = %v, want none", plans)
	}
	if _, err := svc.Plan(ctx, result.PlanID); err != nil {
		t.Errorf("Plan() after expiry error = %v, want still addressable", err)
	}

	removed, err := svc.SweepExpiredPlans(ctx)
	if err != nil {
		t.Fatalf("SweepExpiredPlans() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("SweepExpiredPlans() = %d, want 1", removed)
	}
	if _, err := svc.Plan(ctx, result.PlanID); err != storage.ErrNotFound {
		t.Errorf("Plan() after sweep error = %v, want ErrNotFound", err)
	}
}
