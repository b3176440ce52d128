package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cardstash/internal/contextutil"
	"cardstash/internal/csvimport"
	"cardstash/internal/inventory"
	"cardstash/internal/storage"
)

// InventoryHandler serves inventory import, lookup, and location discovery.
type InventoryHandler struct {
	inventory *inventory.Service
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventoryService *inventory.Service) *InventoryHandler {
	return &InventoryHandler{inventory: inventoryService}
}

// Import handles POST /api/inventory/import with a CSV request body. The
// whole inventory is replaced atomically.
func (h *InventoryHandler) Import(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	parsed, err := csvimport.ParseInventory(r.Body)
	if err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	imported, err := h.inventory.Import(ctx, parsed.Records)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logger.InfoContext(ctx, "inventory import complete", "imported", imported, "skipped", parsed.Skipped)
	writeJSON(ctx, w, http.StatusOK, map[string]any{"imported": imported, "skipped": parsed.Skipped})
}

type inventoryItem struct {
	InventoryID     int64  `json:"inventory_id"`
	EMID            int64  `json:"emid"`
	Name            string `json:"name"`
	SetCode         string `json:"set_code"`
	SetName         string `json:"set_name"`
	CollectorNumber string `json:"collector_number"`
	Rarity          string `json:"rarity"`
	Condition       string `json:"condition"`
	Language        string `json:"language"`
	Foil            bool   `json:"foil"`
	Note            string `json:"note"`
	NoteID          string `json:"note_id,omitempty"`
}

// Get handles GET /api/inventory/{id}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid inventory id"})
		return
	}

	rec, err := h.inventory.Get(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toInventoryItem(rec))
}

type locationInfo struct {
	Tag         string `json:"tag"`
	MaxPosition int    `json:"max_position"`
}

// Locations handles GET /api/locations: known location tags with the
// highest position observed per tag.
func (h *InventoryHandler) Locations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	locations, err := h.inventory.ListLocations(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	infos := make([]locationInfo, 0, len(locations))
	for _, l := range locations {
		infos = append(infos, locationInfo{Tag: l.Tag, MaxPosition: l.MaxPosition})
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"locations": infos})
}

func toInventoryItem(rec *storage.InventoryRecord) inventoryItem {
	return inventoryItem{
		InventoryID:     rec.InventoryID,
		EMID:            rec.EMID,
		Name:            rec.Name,
		SetCode:         rec.SetCode,
		SetName:         rec.SetName,
		CollectorNumber: rec.CollectorNumber,
		Rarity:          rec.Rarity,
		Condition:       rec.Condition,
		Language:        rec.Language,
		Foil:            rec.Foil,
		Note:            rec.Note,
		NoteID:          rec.NoteID,
	}
}
