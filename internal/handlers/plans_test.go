package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newPlansRouter(env *testEnv) http.Handler {
	h := NewPlansHandler(env.inventory)
	r := chi.NewRouter()
	r.Get("/api/plans", h.List)
	r.Post("/api/plans/sweep", h.Sweep)
	r.Get("/api/plans/{id}", h.Get)
	r.Delete("/api/plans/{id}", h.Delete)
	r.Put("/api/plans/{id}/items/{index}", h.ToggleItem)
	return r
}

// checkoutPlan creates a checkout batch and returns the resulting plan id.
func checkoutPlan(t *testing.T, env *testEnv) string {
	t.Helper()
	result, err := env.inventory.Checkout(context.Background(), []int64{1, 2}, "deck1", 1)
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	return result.PlanID
}

func TestPlansHandler_ListAndGet(t *testing.T) {
	env := newTestEnv(t)
	env.seedInventory(t)
	planID := checkoutPlan(t, env)
	router := newPlansRouter(env)

	req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", w.Code, w.Body.String())
	}

	var listResp struct {
		Plans []planSummary `json:"plans"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("unmarshal list response: %v", err)
	}
	if len(listResp.Plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(listResp.Plans))
	}
	if listResp.Plans[0].ID != planID || listResp.Plans[0].ItemCount != 2 {
		t.Errorf("plan summary = %+v", listResp.Plans[0])
	}

	req = httptest.NewRequest(http.MethodGet, "/api/plans/"+planID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d: %s", w.Code, w.Body.String())
	}

	var detail planDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("unmarshal detail response: %v", err)
	}
	if len(detail.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(detail.Items))
	}
	if detail.Items[0].CardName != "Lightning Bolt" || detail.Items[0].CurrentLocation != "binder1" {
		t.Errorf("first item = %+v", detail.Items[0])
	}
}

func TestPlansHandler_Get_NotFound(t *testing.T) {
	env := newTestEnv(t)
	router := newPlansRouter(env)

	req := httptest.NewRequest(http.MethodGet, "/api/plans/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestPlansHandler_ToggleItem(t *testing.T) {
	env := newTestEnv(t)
	env.seedInventory(t)
	planID := checkoutPlan(t, env)
	router := newPlansRouter(env)

	req := httptest.NewRequest(http.MethodPut, "/api/plans/"+planID+"/items/0",
		strings.NewReader(`{"checked":true}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d: %s", w.Code, w.Body.String())
	}

	plan, err := env.inventory.Plan(req.Context(), planID)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if !plan.Items[0].Checked || plan.Items[1].Checked {
		t.Errorf("items = %+v", plan.Items)
	}

	// Out-of-range index is a client error.
	req = httptest.NewRequest(http.MethodPut, "/api/plans/"+planID+"/items/9",
		strings.NewReader(`{"checked":true}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("out-of-range status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestPlansHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	env.seedInventory(t)
	planID := checkoutPlan(t, env)
	router := newPlansRouter(env)

	req := httptest.NewRequest(http.MethodDelete, "/api/plans/"+planID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/plans/"+planID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestPlansHandler_Sweep(t *testing.T) {
	env := newTestEnv(t)
	router := newPlansRouter(env)

	req := httptest.NewRequest(http.MethodPost, "/api/plans/sweep", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sweep status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Removed int `json:"removed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal sweep response: %v", err)
	}
	if resp.Removed != 0 {
		t.Errorf("removed = %d, want 0", resp.Removed)
	}
}
