// Package catalogapi is the boundary to the remote catalog service. All
// response-shape variance is resolved here, so the rest of the system only
// ever sees normalized payloads.
package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// Client is a client for the remote card catalog API.
type Client struct {
	BaseURL string
	Token   string
	client  *http.Client
}

// NewClient creates a new catalog API client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		client:  http.DefaultClient,
	}
}

// SetPayload is the normalized shape of a fetched set.
type SetPayload struct {
	SetCode string
	SetName string
	Cards   []RawRow
}

// RawRow is one normalized catalog row.
type RawRow struct {
	ID              int64
	Name            string
	CollectorNumber string
	Rarity          string
	TypeLine        string
	ImageURL        string
	ImageURLBack    string
}

// FetchSet fetches every catalog row of a set and normalizes the response
// into a SetPayload.
func (c *Client) FetchSet(ctx context.Context, setCode string) (*SetPayload, error) {
	url := fmt.Sprintf("%s/api/sets/%s/cards", c.BaseURL, setCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch set %s: %w", setCode, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch set %s: status %d: %s", setCode, resp.StatusCode, truncate(body))
	}

	payload, err := decodeSetResponse(setCode, body)
	if err != nil {
		return nil, fmt.Errorf("decode set %s: %w", setCode, err)
	}
	return payload, nil
}

// NoteSync is one local note change to push to the remote service.
type NoteSync struct {
	InventoryID int64  `json:"inventory_id"`
	Note        string `json:"note"`
	NoteID      string `json:"note_id,omitempty"`
}

// SyncNotes pushes note changes and returns the remote note id assigned to
// each inventory id. The mapping is stored opaquely by the inventory store.
func (c *Client) SyncNotes(ctx context.Context, notes []NoteSync) (map[int64]string, error) {
	url := c.BaseURL + "/api/inventory/notes"

	payload, err := json.Marshal(map[string]any{"notes": notes})
	if err != nil {
		return nil, fmt.Errorf("marshal notes: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sync notes: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sync notes: status %d: %s", resp.StatusCode, truncate(body))
	}

	return decodeNoteSyncResponse(body)
}

func (c *Client) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

func truncate(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

// setResponse covers the known envelope variants the catalog API returns:
// rows under "cards", under "items", or as a bare array. A present key wins
// even when its array is empty; the bare-array form is the last resort.
type setResponse struct {
	SetName string            `json:"set_name"`
	Name    string            `json:"name"`
	Cards   []json.RawMessage `json:"cards"`
	Items   []json.RawMessage `json:"items"`
}

// rawCardRow covers the known per-row field variants: the id may arrive as
// "emid", "id", or "card_id", numeric or string.
type rawCardRow struct {
	EMID            json.Number `json:"emid"`
	ID              json.Number `json:"id"`
	CardID          json.Number `json:"card_id"`
	Name            string      `json:"name"`
	CollectorNumber string      `json:"collector_number"`
	Number          string      `json:"number"`
	Rarity          string      `json:"rarity"`
	TypeLine        string      `json:"type_line"`
	Type            string      `json:"type"`
	ImageURL        string      `json:"image_url"`
	Image           string      `json:"image"`
	ImageURLBack    string      `json:"image_url_back"`
}

func decodeSetResponse(setCode string, body []byte) (*SetPayload, error) {
	var rows []json.RawMessage
	var setName string

	recognized := false
	var envelope setResponse
	if err := json.Unmarshal(body, &envelope); err == nil {
		// A "cards" or "items" key decodes to a non-nil slice even when the
		// array is empty; an absent key leaves the field nil. An empty set is
		// a valid payload, not a shape mismatch.
		switch {
		case envelope.Cards != nil:
			rows = envelope.Cards
			recognized = true
		case envelope.Items != nil:
			rows = envelope.Items
			recognized = true
		}
		setName = envelope.SetName
		if setName == "" {
			setName = envelope.Name
		}
	}

	if !recognized {
		// Bare-array variant.
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("unrecognized response shape: %w", err)
		}
	}

	payload := &SetPayload{SetCode: setCode, SetName: setName}
	for _, raw := range rows {
		var row rawCardRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("unmarshal row: %w", err)
		}
		normalized, err := normalizeRow(row)
		if err != nil {
			return nil, err
		}
		payload.Cards = append(payload.Cards, normalized)
	}
	return payload, nil
}

func normalizeRow(row rawCardRow) (RawRow, error) {
	id, err := firstNumber(row.EMID, row.ID, row.CardID)
	if err != nil {
		return RawRow{}, fmt.Errorf("row %q has no usable id", row.Name)
	}

	collector := row.CollectorNumber
	if collector == "" {
		collector = row.Number
	}
	typeLine := row.TypeLine
	if typeLine == "" {
		typeLine = row.Type
	}
	imageURL := row.ImageURL
	if imageURL == "" {
		imageURL = row.Image
	}

	return RawRow{
		ID:              id,
		Name:            row.Name,
		CollectorNumber: collector,
		Rarity:          row.Rarity,
		TypeLine:        typeLine,
		ImageURL:        imageURL,
		ImageURLBack:    row.ImageURLBack,
	}, nil
}

func firstNumber(candidates ...json.Number) (int64, error) {
	for _, n := range candidates {
		if n == "" {
			continue
		}
		if id, err := strconv.ParseInt(n.String(), 10, 64); err == nil && id != 0 {
			return id, nil
		}
	}
	return 0, fmt.Errorf("no numeric id")
}

func decodeNoteSyncResponse(body []byte) (map[int64]string, error) {
	// Known variants: {"note_ids": {"123": "abc"}} or a bare object.
	var envelope struct {
		NoteIDs map[string]string `json:"note_ids"`
	}
	mapping := map[string]string{}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.NoteIDs) > 0 {
		mapping = envelope.NoteIDs
	} else if err := json.Unmarshal(body, &mapping); err != nil {
		return nil, fmt.Errorf("unrecognized response shape: %w", err)
	}

	result := make(map[int64]string, len(mapping))
	for key, noteID := range mapping {
		inventoryID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		result[inventoryID] = noteID
	}
	return result, nil
}
