// Package catalog owns the local card catalog: caching sets, scoping search
// to active sets, and recomputing derived search fields during schema
// migration.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cardstash/internal/storage"
	"cardstash/internal/textnorm"
)

// RawCard is one catalog row as supplied by the import layer or the remote
// catalog client, before normalization.
type RawCard struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	CollectorNumber string `json:"collector_number"`
	Rarity          string `json:"rarity"`
	TypeLine        string `json:"type_line"`
	ImageURL        string `json:"image_url"`
	ImageURLBack    string `json:"image_url_back"`
}

// Service provides catalog operations over the card and set repositories.
// Multi-record operations run in a single transaction so a concurrent
// reader never observes a half-cached set.
type Service struct {
	db     *sql.DB
	cards  *storage.CardRepo
	sets   *storage.SetRepo
	now    func() time.Time
	logger *slog.Logger
}

// NewService creates a catalog service.
func NewService(db *sql.DB) *Service {
	return &Service{
		db:     db,
		cards:  storage.NewCardRepo(db),
		sets:   storage.NewSetRepo(db),
		now:    time.Now,
		logger: slog.Default(),
	}
}

// PutSet normalizes and upserts every row of a set and replaces the set
// cache entry, atomically. Returns the number of cards cached.
func (s *Service) PutSet(ctx context.Context, setCode, setName string, rows []RawCard) (int, error) {
	if strings.TrimSpace(setCode) == "" {
		return 0, fmt.Errorf("set code cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	cards := s.cards.WithTx(tx)
	for _, row := range rows {
		card := BuildCard(setCode, setName, row)
		if err := cards.Upsert(ctx, card); err != nil {
			return 0, fmt.Errorf("failed to cache card %d: %w", row.ID, err)
		}
	}

	entry := &storage.SetCacheEntry{
		SetCode:   setCode,
		SetName:   setName,
		CardCount: len(rows),
		CachedAt:  s.now(),
		Active:    true,
	}
	if err := s.sets.WithTx(tx).Upsert(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to cache set entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit set cache: %w", err)
	}

	s.logger.InfoContext(ctx, "set cached", "set_code", setCode, "cards", len(rows))
	return len(rows), nil
}

// ClearSet removes every card of a set and its cache entry. Matching keys
// are collected first and then deleted, so the delete never races the scan.
func (s *Service) ClearSet(ctx context.Context, setCode string) error {
	ids, err := s.cards.IDsBySet(ctx, setCode)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.cards.WithTx(tx).DeleteByIDs(ctx, ids); err != nil {
		return err
	}
	if err := s.sets.WithTx(tx).Delete(ctx, setCode); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit set clear: %w", err)
	}

	s.logger.InfoContext(ctx, "set cleared", "set_code", setCode, "cards", len(ids))
	return nil
}

// ClearAll empties the card and set stores.
func (s *Service) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.cards.WithTx(tx).DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.sets.WithTx(tx).DeleteAll(ctx); err != nil {
		return err
	}
	return tx.Commit()
}

// SetActive toggles whether a cached set is in search scope.
func (s *Service) SetActive(ctx context.Context, setCode string, active bool) error {
	return s.sets.SetActive(ctx, setCode, active)
}

// ListCachedSets returns every cached set.
func (s *Service) ListCachedSets(ctx context.Context) ([]*storage.SetCacheEntry, error) {
	return s.sets.List(ctx)
}

// ListActiveSetCodes returns the codes of sets currently in search scope.
func (s *Service) ListActiveSetCodes(ctx context.Context) ([]string, error) {
	return s.sets.ActiveCodes(ctx)
}

// NeedsMigration reports whether any card lacks derived search fields.
func (s *Service) NeedsMigration(ctx context.Context) (bool, error) {
	n, err := s.cards.CountMissingDerived(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// migrateBatchSize keeps each migration pass short so long scans never
// starve unrelated operations.
const migrateBatchSize = 500

// Migrate recomputes derived search fields for legacy cards in place,
// preserving stored variant tags when present. Returns how many cards were
// updated.
func (s *Service) Migrate(ctx context.Context) (int, error) {
	updated := 0
	afterID := int64(0)

	for {
		batch, err := s.cards.ListMissingDerived(ctx, afterID, migrateBatchSize)
		if err != nil {
			return updated, err
		}
		if len(batch) == 0 {
			break
		}

		for _, old := range batch {
			rebuilt := BuildCard(old.SetCode, old.SetName, RawCard{
				ID:              old.ID,
				Name:            old.Name,
				CollectorNumber: old.CollectorNumber,
				Rarity:          old.Rarity,
				TypeLine:        old.TypeLine,
				ImageURL:        old.ImageURL,
				ImageURLBack:    old.ImageURLBack,
			})
			if len(old.VariantTags) > 0 {
				rebuilt.VariantTags = old.VariantTags
				rebuilt.IsFoilVariant = old.IsFoilVariant
			}
			if err := s.cards.Upsert(ctx, rebuilt); err != nil {
				return updated, fmt.Errorf("failed to migrate card %d: %w", old.ID, err)
			}
			updated++
			afterID = old.ID
		}
	}

	if updated > 0 {
		s.logger.InfoContext(ctx, "card schema migrated", "updated", updated)
	}
	return updated, nil
}

// BuildCard derives a full card record from a raw catalog row via the text
// normalizer pipeline.
func BuildCard(setCode, setName string, row RawCard) *storage.CardRecord {
	normalized := textnorm.NormalizeDisplayName(row.Name)
	tags, isFoil := textnorm.ExtractVariantTags(row.Name)

	return &storage.CardRecord{
		ID:                  row.ID,
		Name:                row.Name,
		NameLower:           strings.ToLower(row.Name),
		NameNormalized:      strings.ToLower(normalized),
		SearchNormalized:    textnorm.NormalizeForSearch(normalized),
		FirstLetter:         textnorm.FirstLetter(normalized),
		Tokens:              textnorm.ExtractTokens(normalized),
		Initials:            textnorm.Initials(normalized),
		ProgressiveInitials: textnorm.ProgressiveInitials(normalized),
		VariantTags:         tags,
		IsFoilVariant:       isFoil,
		SetCode:             setCode,
		SetName:             setName,
		CollectorNumber:     row.CollectorNumber,
		Rarity:              row.Rarity,
		TypeLine:            row.TypeLine,
		ImageURL:            row.ImageURL,
		ImageURLBack:        row.ImageURLBack,
	}
}
