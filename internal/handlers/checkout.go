package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cardstash/internal/contextutil"
	"cardstash/internal/inventory"
	"cardstash/internal/storage"
)

// CheckoutHandler serves the checkout/check-in ledger.
type CheckoutHandler struct {
	inventory *inventory.Service
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(inventoryService *inventory.Service) *CheckoutHandler {
	return &CheckoutHandler{inventory: inventoryService}
}

type checkoutRequest struct {
	InventoryIDs   []int64 `json:"inventory_ids"`
	TargetLocation string  `json:"target_location"`
	TargetOffset   int     `json:"target_offset"`
}

type checkoutEntry struct {
	ID              int64      `json:"id"`
	InventoryID     int64      `json:"inventory_id"`
	EMID            int64      `json:"emid"`
	CardName        string     `json:"card_name"`
	SetCode         string     `json:"set_code"`
	CollectorNumber string     `json:"collector_number"`
	TargetLocation  string     `json:"target_location"`
	TargetPosition  int        `json:"target_position"`
	SourceLocation  string     `json:"source_location,omitempty"`
	SourcePosition  int        `json:"source_position,omitempty"`
	Status          string     `json:"status"`
	CheckedOutAt    time.Time  `json:"checked_out_at"`
	CheckedInAt     *time.Time `json:"checked_in_at,omitempty"`
}

// Checkout handles POST /api/checkouts: relocate a batch of inventory items
// to a target location and create the retrieval plan for picking them.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.inventory.Checkout(ctx, req.InventoryIDs, req.TargetLocation, req.TargetOffset)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries := make([]checkoutEntry, 0, len(result.Checkouts))
	for _, c := range result.Checkouts {
		entries = append(entries, toCheckoutEntry(c))
	}

	logger.InfoContext(ctx, "checkout complete", "items", len(entries), "plan_id", result.PlanID)
	writeJSON(ctx, w, http.StatusOK, map[string]any{"checkouts": entries, "plan_id": result.PlanID})
}

type checkinRequest struct {
	CheckoutIDs    []int64 `json:"checkout_ids"`
	ReturnLocation string  `json:"return_location"`
	ReturnPosition int     `json:"return_position"`
}

// Checkin handles POST /api/checkouts/checkin. Already-returned or unknown
// ids are skipped; the response counts the records actually updated.
func (h *CheckoutHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkinRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	updated, err := h.inventory.Checkin(ctx, req.CheckoutIDs, req.ReturnLocation, req.ReturnPosition)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"updated": updated})
}

type openGroup struct {
	Location             string    `json:"location"`
	Count                int       `json:"count"`
	EarliestCheckedOutAt time.Time `json:"earliest_checked_out_at"`
}

// OpenGroups handles GET /api/checkouts/open: currently checked-out records
// summarized per target location.
func (h *CheckoutHandler) OpenGroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	groups, err := h.inventory.ListOpenGroups(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]openGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, openGroup{
			Location:             g.Location,
			Count:                g.Count,
			EarliestCheckedOutAt: g.EarliestCheckedOutAt,
		})
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"groups": out})
}

// OpenByLocation handles GET /api/checkouts/open/{location}.
func (h *CheckoutHandler) OpenByLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	location := chi.URLParam(r, "location")
	records, err := h.inventory.ListOpenByLocation(ctx, location)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries := make([]checkoutEntry, 0, len(records))
	for _, c := range records {
		entries = append(entries, toCheckoutEntry(c))
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"location": location, "checkouts": entries})
}

func toCheckoutEntry(c *storage.CheckoutRecord) checkoutEntry {
	return checkoutEntry{
		ID:              c.ID,
		InventoryID:     c.InventoryID,
		EMID:            c.EMID,
		CardName:        c.CardName,
		SetCode:         c.SetCode,
		CollectorNumber: c.CollectorNumber,
		TargetLocation:  c.TargetLocation,
		TargetPosition:  c.TargetPosition,
		SourceLocation:  c.SourceLocation,
		SourcePosition:  c.SourcePosition,
		Status:          c.Status,
		CheckedOutAt:    c.CheckedOutAt,
		CheckedInAt:     c.CheckedInAt,
	}
}
