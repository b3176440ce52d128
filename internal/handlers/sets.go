package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"cardstash/internal/catalog"
	"cardstash/internal/catalogapi"
	"cardstash/internal/contextutil"
)

// SetsHandler serves set-cache management: caching a set from the remote
// catalog, listing and toggling cached sets, and the known-set directory.
type SetsHandler struct {
	catalog   *catalog.Service
	client    *catalogapi.Client
	directory *catalogapi.SetDirectory
}

// NewSetsHandler creates a new SetsHandler.
func NewSetsHandler(catalogService *catalog.Service, client *catalogapi.Client, directory *catalogapi.SetDirectory) *SetsHandler {
	return &SetsHandler{catalog: catalogService, client: client, directory: directory}
}

type cachedSet struct {
	SetCode   string    `json:"set_code"`
	SetName   string    `json:"set_name"`
	CardCount int       `json:"card_count"`
	CachedAt  time.Time `json:"cached_at"`
	Active    bool      `json:"active"`
}

// List handles GET /api/sets.
func (h *SetsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.catalog.ListCachedSets(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sets := make([]cachedSet, 0, len(entries))
	for _, e := range entries {
		sets = append(sets, cachedSet{
			SetCode:   e.SetCode,
			SetName:   e.SetName,
			CardCount: e.CardCount,
			CachedAt:  e.CachedAt,
			Active:    e.Active,
		})
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"sets": sets})
}

// Directory handles GET /api/sets/directory.
func (h *SetsHandler) Directory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(ctx, w, http.StatusOK, map[string]any{"sets": h.directory.Entries(ctx)})
}

// Cache handles POST /api/sets/{code}/cache: fetch the set from the remote
// catalog, normalize it, and store it locally.
func (h *SetsHandler) Cache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	setCode := strings.TrimSpace(chi.URLParam(r, "code"))
	if setCode == "" {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "set code is required"})
		return
	}

	payload, err := h.client.FetchSet(ctx, setCode)
	if err != nil {
		logger.ErrorContext(ctx, "set fetch failed", "set_code", setCode, "error", err)
		writeJSON(ctx, w, http.StatusBadGateway, errorResponse{Error: "catalog fetch failed"})
		return
	}

	setName := payload.SetName
	if setName == "" {
		setName = h.lookupSetName(ctx, setCode)
	}

	rows := make([]catalog.RawCard, 0, len(payload.Cards))
	for _, c := range payload.Cards {
		rows = append(rows, catalog.RawCard{
			ID:              c.ID,
			Name:            c.Name,
			CollectorNumber: c.CollectorNumber,
			Rarity:          c.Rarity,
			TypeLine:        c.TypeLine,
			ImageURL:        c.ImageURL,
			ImageURLBack:    c.ImageURLBack,
		})
	}

	count, err := h.catalog.PutSet(ctx, setCode, setName, rows)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"set_code": setCode, "cards": count})
}

// Activate handles PUT /api/sets/{code}/active.
func (h *SetsHandler) Activate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	setCode := strings.TrimSpace(chi.URLParam(r, "code"))
	var req struct {
		Active bool `json:"active"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.catalog.SetActive(ctx, setCode, req.Active); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"set_code": setCode, "active": req.Active})
}

// Clear handles DELETE /api/sets/{code}.
func (h *SetsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	setCode := strings.TrimSpace(chi.URLParam(r, "code"))
	if err := h.catalog.ClearSet(ctx, setCode); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"set_code": setCode, "cleared": true})
}

// ClearAll handles DELETE /api/sets.
func (h *SetsHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.catalog.ClearAll(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"cleared": true})
}

// Migrate handles POST /api/catalog/migrate: recompute derived search
// fields for legacy card rows.
func (h *SetsHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	updated, err := h.catalog.Migrate(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"updated": updated})
}

func (h *SetsHandler) lookupSetName(ctx context.Context, setCode string) string {
	for _, entry := range h.directory.Entries(ctx) {
		if strings.EqualFold(entry.Code, setCode) {
			return entry.Name
		}
	}
	return ""
}
