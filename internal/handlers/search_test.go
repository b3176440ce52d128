package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedCatalog(t)

	handler := NewSearchHandler(env.engine, env.catalog)

	tests := []struct {
		name       string
		url        string
		wantStatus int
		wantNames  []string
	}{
		{
			name:       "prefix query returns index order",
			url:        "/api/search?q=light",
			wantStatus: http.StatusOK,
			wantNames:  []string{"Lightning Bolt", "Lightning Helix"},
		},
		{
			name:       "initials query ranks exact first",
			url:        "/api/search?q=LB",
			wantStatus: http.StatusOK,
			wantNames:  []string{"Lightning Bolt"},
		},
		{
			name:       "empty query returns no results",
			url:        "/api/search?q=",
			wantStatus: http.StatusOK,
			wantNames:  []string{},
		},
		{
			name:       "limit truncates",
			url:        "/api/search?q=light&limit=1",
			wantStatus: http.StatusOK,
			wantNames:  []string{"Lightning Bolt"},
		},
		{
			name:       "bad limit rejected",
			url:        "/api/search?q=light&limit=zero",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp searchResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if len(resp.Results) != len(tt.wantNames) {
				t.Fatalf("got %d results, want %d: %+v", len(resp.Results), len(tt.wantNames), resp.Results)
			}
			for i, want := range tt.wantNames {
				if resp.Results[i].Name != want {
					t.Errorf("result[%d] = %q, want %q", i, resp.Results[i].Name, want)
				}
			}
		})
	}
}

func TestSearchHandler_InactiveSetOutOfScope(t *testing.T) {
	env := newTestEnv(t)
	env.seedCatalog(t)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=light", nil)
	w := httptest.NewRecorder()
	handler := NewSearchHandler(env.engine, env.catalog)

	if err := env.catalog.SetActive(req.Context(), "LEA", false); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}

	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp searchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("got %d results from inactive set, want 0", len(resp.Results))
	}
}
