package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"cardstash/internal/inventory"
	"cardstash/internal/storage"
)

// PlansHandler serves the retrieval plans created by checkout batches.
type PlansHandler struct {
	inventory *inventory.Service
}

// NewPlansHandler creates a new PlansHandler.
func NewPlansHandler(inventoryService *inventory.Service) *PlansHandler {
	return &PlansHandler{inventory: inventoryService}
}

type planSummary struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	TargetLocation string    `json:"target_location"`
	TargetOffset   int       `json:"target_offset"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	Status         string    `json:"status"`
	ItemCount      int       `json:"item_count"`
}

type planDetail struct {
	planSummary
	Items []storage.PlanItem `json:"items"`
}

// List handles GET /api/plans: non-expired plans, newest first.
func (h *PlansHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plans, err := h.inventory.ListPlans(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summaries := make([]planSummary, 0, len(plans))
	for _, p := range plans {
		summaries = append(summaries, toPlanSummary(p))
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"plans": summaries})
}

// Get handles GET /api/plans/{id}. An expired plan is still addressable by
// id until the sweep removes it.
func (h *PlansHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plan, err := h.inventory.Plan(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, planDetail{planSummary: toPlanSummary(plan), Items: plan.Items})
}

type toggleItemRequest struct {
	Checked bool `json:"checked"`
}

// ToggleItem handles PUT /api/plans/{id}/items/{index}: mark one plan item
// as retrieved or not.
func (h *PlansHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid item index"})
		return
	}

	var req toggleItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.inventory.ToggleItemChecked(ctx, chi.URLParam(r, "id"), index, req.Checked); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"checked": req.Checked})
}

// Delete handles DELETE /api/plans/{id}.
func (h *PlansHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.inventory.DeletePlan(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"deleted": true})
}

// Sweep handles POST /api/plans/sweep: delete plans past their expiry.
func (h *PlansHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	removed, err := h.inventory.SweepExpiredPlans(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"removed": removed})
}

func toPlanSummary(p *storage.RetrievalPlan) planSummary {
	return planSummary{
		ID:             p.ID,
		Title:          p.Title,
		TargetLocation: p.TargetLocation,
		TargetOffset:   p.TargetOffset,
		CreatedAt:      p.CreatedAt,
		ExpiresAt:      p.ExpiresAt,
		Status:         p.Status,
		ItemCount:      len(p.Items),
	}
}
