package handlers

import (
	"net/http"
	"strconv"

	"cardstash/internal/catalog"
	"cardstash/internal/contextutil"
	"cardstash/internal/search"
	"cardstash/internal/storage"
)

// SearchHandler serves card search over the active catalog sets.
type SearchHandler struct {
	engine  *search.Engine
	catalog *catalog.Service
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(engine *search.Engine, catalogService *catalog.Service) *SearchHandler {
	return &SearchHandler{engine: engine, catalog: catalogService}
}

// searchResult is the wire shape of one match.
type searchResult struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	SetCode         string   `json:"set_code"`
	SetName         string   `json:"set_name"`
	CollectorNumber string   `json:"collector_number"`
	Rarity          string   `json:"rarity"`
	TypeLine        string   `json:"type_line"`
	ImageURL        string   `json:"image_url"`
	ImageURLBack    string   `json:"image_url_back,omitempty"`
	VariantTags     []string `json:"variant_tags,omitempty"`
	IsFoilVariant   bool     `json:"is_foil_variant,omitempty"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results"`
}

// ServeHTTP handles GET /api/search?q=...&limit=...
// Search scope defaults to the active sets; an explicit "sets" parameter
// (comma-free, repeatable) overrides it.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	query := r.URL.Query().Get("q")

	limit := search.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	setCodes := r.URL.Query()["sets"]
	if len(setCodes) == 0 {
		active, err := h.catalog.ListActiveSetCodes(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		setCodes = active
	}

	cards, err := h.engine.Search(ctx, query, setCodes, limit)
	if err != nil {
		logger.ErrorContext(ctx, "search failed", "query", query, "error", err)
		writeError(ctx, w, err)
		return
	}

	results := make([]searchResult, 0, len(cards))
	for _, c := range cards {
		results = append(results, toSearchResult(c))
	}
	writeJSON(ctx, w, http.StatusOK, searchResponse{Query: query, Results: results})
}

func toSearchResult(c *storage.CardRecord) searchResult {
	return searchResult{
		ID:              c.ID,
		Name:            c.Name,
		SetCode:         c.SetCode,
		SetName:         c.SetName,
		CollectorNumber: c.CollectorNumber,
		Rarity:          c.Rarity,
		TypeLine:        c.TypeLine,
		ImageURL:        c.ImageURL,
		ImageURLBack:    c.ImageURLBack,
		VariantTags:     c.VariantTags,
		IsFoilVariant:   c.IsFoilVariant,
	}
}
