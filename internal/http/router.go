package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cardstash/internal/catalog"
	"cardstash/internal/catalogapi"
	"cardstash/internal/handlers"
	"cardstash/internal/inventory"
	"cardstash/internal/search"
	"cardstash/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	DB        *sql.DB
	Catalog   *catalog.Service
	Inventory *inventory.Service
	Engine    *search.Engine
	State     *storage.StateRepo
	Client    *catalogapi.Client
	Directory *catalogapi.SetDirectory
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	searchHandler := handlers.NewSearchHandler(deps.Engine, deps.Catalog)
	setsHandler := handlers.NewSetsHandler(deps.Catalog, deps.Client, deps.Directory)
	inventoryHandler := handlers.NewInventoryHandler(deps.Inventory)
	checkoutHandler := handlers.NewCheckoutHandler(deps.Inventory)
	plansHandler := handlers.NewPlansHandler(deps.Inventory)
	stateHandler := handlers.NewStateHandler(deps.State)
	noteSyncHandler := handlers.NewNoteSyncHandler(deps.Inventory, deps.Client)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Method(http.MethodGet, "/search", searchHandler)

		r.Route("/sets", func(r chi.Router) {
			r.Get("/", setsHandler.List)
			r.Delete("/", setsHandler.ClearAll)
			r.Get("/directory", setsHandler.Directory)
			r.Post("/{code}/cache", setsHandler.Cache)
			r.Put("/{code}/active", setsHandler.Activate)
			r.Delete("/{code}", setsHandler.Clear)
		})

		r.Post("/catalog/migrate", setsHandler.Migrate)

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/import", inventoryHandler.Import)
			r.Method(http.MethodPost, "/notes/sync", noteSyncHandler)
			r.Get("/{id}", inventoryHandler.Get)
		})

		r.Get("/locations", inventoryHandler.Locations)

		r.Route("/checkouts", func(r chi.Router) {
			r.Post("/", checkoutHandler.Checkout)
			r.Post("/checkin", checkoutHandler.Checkin)
			r.Get("/open", checkoutHandler.OpenGroups)
			r.Get("/open/{location}", checkoutHandler.OpenByLocation)
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", plansHandler.List)
			r.Post("/sweep", plansHandler.Sweep)
			r.Get("/{id}", plansHandler.Get)
			r.Delete("/{id}", plansHandler.Delete)
			r.Put("/{id}/items/{index}", plansHandler.ToggleItem)
		})

		r.Route("/state", func(r chi.Router) {
			r.Get("/{key}", stateHandler.Get)
			r.Put("/{key}", stateHandler.Put)
			r.Delete("/{key}", stateHandler.Delete)
		})
	})

	return r
}
