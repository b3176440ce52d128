package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DirectoryEntry is one known set in the remote catalog's directory.
type DirectoryEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// StateStore is the persistence handle SetDirectory uses to survive
// restarts. Satisfied by storage.StateRepo.
type StateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

const (
	directoryStateKey = "set_directory"

	// DefaultDirectoryMaxAge is how long a persisted directory is trusted
	// before a refresh is attempted.
	DefaultDirectoryMaxAge = 24 * time.Hour
)

type persistedDirectory struct {
	FetchedAt time.Time        `json:"fetched_at"`
	Entries   []DirectoryEntry `json:"entries"`
}

// SetDirectory resolves the list of known sets. Sources are consulted in
// a fixed order: a fresh persisted copy, then a live fetch, then a stale
// persisted copy, then the static fallback table. A live fetch that
// succeeds is persisted for next time.
type SetDirectory struct {
	client *Client
	state  StateStore
	maxAge time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewSetDirectory creates a set directory backed by the given client and
// state store.
func NewSetDirectory(client *Client, state StateStore, maxAge time.Duration) *SetDirectory {
	if maxAge <= 0 {
		maxAge = DefaultDirectoryMaxAge
	}
	return &SetDirectory{
		client: client,
		state:  state,
		maxAge: maxAge,
		now:    time.Now,
		logger: slog.Default(),
	}
}

// Entries returns the best available set directory. It never fails: every
// source falling through still leaves the static table.
func (d *SetDirectory) Entries(ctx context.Context) []DirectoryEntry {
	persisted, persistErr := d.load(ctx)

	now := d.now()
	if persistErr == nil && now.Sub(persisted.FetchedAt) < d.maxAge {
		return persisted.Entries
	}

	fetched, fetchErr := d.fetch(ctx)
	if fetchErr == nil {
		d.store(ctx, persistedDirectory{FetchedAt: now, Entries: fetched})
		return fetched
	}
	d.logger.WarnContext(ctx, "set directory fetch failed", "error", fetchErr)

	if persistErr == nil && len(persisted.Entries) > 0 {
		return persisted.Entries
	}

	return staticDirectory()
}

func (d *SetDirectory) load(ctx context.Context) (persistedDirectory, error) {
	raw, err := d.state.Get(ctx, directoryStateKey)
	if err != nil {
		return persistedDirectory{}, err
	}
	var p persistedDirectory
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return persistedDirectory{}, fmt.Errorf("unmarshal persisted directory: %w", err)
	}
	return p, nil
}

func (d *SetDirectory) store(ctx context.Context, p persistedDirectory) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := d.state.Set(ctx, directoryStateKey, string(raw)); err != nil {
		d.logger.WarnContext(ctx, "set directory persist failed", "error", err)
	}
}

func (d *SetDirectory) fetch(ctx context.Context) ([]DirectoryEntry, error) {
	url := d.client.BaseURL + "/api/sets"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	d.client.authorize(req)

	resp, err := d.client.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch directory: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch directory: status %d: %s", resp.StatusCode, truncate(body))
	}

	// Known variants: {"sets": [...]} or a bare array.
	var envelope struct {
		Sets []DirectoryEntry `json:"sets"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Sets) > 0 {
		return envelope.Sets, nil
	}
	var entries []DirectoryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("unrecognized response shape: %w", err)
	}
	return entries, nil
}

// staticDirectory is the last-resort set table, usable offline on a fresh
// database before any fetch has succeeded.
func staticDirectory() []DirectoryEntry {
	return []DirectoryEntry{
		{Code: "LEA", Name: "Limited Edition Alpha"},
		{Code: "LEB", Name: "Limited Edition Beta"},
		{Code: "2ED", Name: "Unlimited Edition"},
		{Code: "ARN", Name: "Arabian Nights"},
		{Code: "ATQ", Name: "Antiquities"},
		{Code: "LEG", Name: "Legends"},
		{Code: "DRK", Name: "The Dark"},
		{Code: "FEM", Name: "Fallen Empires"},
		{Code: "ICE", Name: "Ice Age"},
		{Code: "HML", Name: "Homelands"},
		{Code: "ALL", Name: "Alliances"},
		{Code: "MIR", Name: "Mirage"},
		{Code: "VIS", Name: "Visions"},
		{Code: "WTH", Name: "Weatherlight"},
		{Code: "TMP", Name: "Tempest"},
		{Code: "STH", Name: "Stronghold"},
		{Code: "EXO", Name: "Exodus"},
		{Code: "USG", Name: "Urza's Saga"},
		{Code: "NEO", Name: "Kamigawa: Neon Dynasty"},
		{Code: "WAR", Name: "War of the Spark"},
		{Code: "MH2", Name: "Modern Horizons 2"},
		{Code: "MH3", Name: "Modern Horizons 3"},
	}
}
