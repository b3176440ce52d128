package catalogapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDecodeSetResponse_Variants(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantLen  int
		wantName string
	}{
		{
			name:     "cards envelope",
			body:     `{"set_name":"Alpha","cards":[{"emid":1,"name":"Bolt"}]}`,
			wantLen:  1,
			wantName: "Alpha",
		},
		{
			name:    "items envelope",
			body:    `{"items":[{"id":"2","name":"Shock"},{"card_id":3,"name":"Counterspell"}]}`,
			wantLen: 2,
		},
		{
			name:    "bare array",
			body:    `[{"emid":4,"name":"Fork"}]`,
			wantLen: 1,
		},
		{
			name:     "empty cards envelope",
			body:     `{"set_name":"Foundations","cards":[]}`,
			wantLen:  0,
			wantName: "Foundations",
		},
		{
			name:    "empty items envelope",
			body:    `{"items":[]}`,
			wantLen: 0,
		},
		{
			name:    "empty bare array",
			body:    `[]`,
			wantLen: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := decodeSetResponse("LEA", []byte(tt.body))
			if err != nil {
				t.Fatalf("decodeSetResponse() error = %v", err)
			}
			if len(payload.Cards) != tt.wantLen {
				t.Errorf("decoded %d cards, want %d", len(payload.Cards), tt.wantLen)
			}
			if payload.SetName != tt.wantName {
				t.Errorf("SetName = %q, want %q", payload.SetName, tt.wantName)
			}
		})
	}
}

func TestDecodeSetResponse_IDFallback(t *testing.T) {
	payload, err := decodeSetResponse("LEA",
		[]byte(`[{"id":"42","name":"Bolt","number":"161","type":"Instant","image":"http://x/bolt.jpg"}]`))
	if err != nil {
		t.Fatalf("decodeSetResponse() error = %v", err)
	}
	row := payload.Cards[0]
	if row.ID != 42 {
		t.Errorf("ID = %d, want 42", row.ID)
	}
	// Alternate field names map onto the canonical ones.
	if row.CollectorNumber != "161" || row.TypeLine != "Instant" || row.ImageURL != "http://x/bolt.jpg" {
		t.Errorf("row = %+v", row)
	}
}

func TestDecodeSetResponse_RowWithoutID(t *testing.T) {
	if _, err := decodeSetResponse("LEA", []byte(`[{"name":"Bolt"}]`)); err == nil {
		t.Error("decodeSetResponse() expected error for row without id")
	}
}

func TestDecodeSetResponse_Garbage(t *testing.T) {
	if _, err := decodeSetResponse("LEA", []byte(`"nope"`)); err == nil {
		t.Error("decodeSetResponse() expected error for unrecognized shape")
	}
}

func TestClient_FetchSet(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"cards":[{"emid":1,"name":"Bolt","collector_number":"161"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token123")
	payload, err := client.FetchSet(context.Background(), "LEA")
	if err != nil {
		t.Fatalf("FetchSet() error = %v", err)
	}
	if gotPath != "/api/sets/LEA/cards" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer token123" {
		t.Errorf("auth = %q", gotAuth)
	}
	if len(payload.Cards) != 1 || payload.Cards[0].Name != "Bolt" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestClient_FetchSet_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	if _, err := client.FetchSet(context.Background(), "LEA"); err == nil {
		t.Error("FetchSet() expected error on 403")
	}
}

func TestClient_SyncNotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"note_ids":{"1":"abc","2":"def"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	mapping, err := client.SyncNotes(context.Background(), []NoteSync{{InventoryID: 1, Note: "deck1p1"}})
	if err != nil {
		t.Fatalf("SyncNotes() error = %v", err)
	}
	if mapping[1] != "abc" || mapping[2] != "def" {
		t.Errorf("mapping = %v", mapping)
	}
}
