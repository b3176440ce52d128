package handlers

import (
	"net/http"

	"cardstash/internal/catalogapi"
	"cardstash/internal/contextutil"
	"cardstash/internal/inventory"
)

// NoteSyncHandler pushes local note changes to the remote catalog service
// and stores the note ids it assigns.
type NoteSyncHandler struct {
	inventory *inventory.Service
	client    *catalogapi.Client
}

// NewNoteSyncHandler creates a new NoteSyncHandler.
func NewNoteSyncHandler(inventoryService *inventory.Service, client *catalogapi.Client) *NoteSyncHandler {
	return &NoteSyncHandler{inventory: inventoryService, client: client}
}

type noteSyncRequest struct {
	Notes []catalogapi.NoteSync `json:"notes"`
}

// ServeHTTP handles POST /api/inventory/notes/sync.
func (h *NoteSyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req noteSyncRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if len(req.Notes) == 0 {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "notes cannot be empty"})
		return
	}

	mapping, err := h.client.SyncNotes(ctx, req.Notes)
	if err != nil {
		logger.ErrorContext(ctx, "note sync failed", "error", err)
		writeJSON(ctx, w, http.StatusBadGateway, errorResponse{Error: "note sync failed"})
		return
	}

	updated, err := h.inventory.SetNoteIDs(ctx, mapping)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"synced": len(mapping), "updated": updated})
}
