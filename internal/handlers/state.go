package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cardstash/internal/storage"
)

// StateHandler serves the application state key-value store.
type StateHandler struct {
	state *storage.StateRepo
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(state *storage.StateRepo) *StateHandler {
	return &StateHandler{state: state}
}

// Get handles GET /api/state/{key}.
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := chi.URLParam(r, "key")
	value, err := h.state.Get(ctx, key)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]string{"key": key, "value": value})
}

type putStateRequest struct {
	Value string `json:"value"`
}

// Put handles PUT /api/state/{key}.
func (h *StateHandler) Put(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := chi.URLParam(r, "key")
	var req putStateRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.state.Set(ctx, key, req.Value); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

// Delete handles DELETE /api/state/{key}.
func (h *StateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.state.Delete(ctx, chi.URLParam(r, "key")); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}
