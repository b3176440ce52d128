package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// cardColumns is the select list shared by every card query.
const cardColumns = `id, name, name_lower, name_normalized, search_normalized, first_letter,
	tokens, initials, progressive_initials, variant_tags, is_foil_variant,
	set_code, set_name, collector_number, rarity, type_line, image_url, image_url_back`

// CardRepo provides methods for card catalog operations.
type CardRepo struct {
	db DBTX
}

// NewCardRepo creates a new CardRepo.
func NewCardRepo(db *sql.DB) *CardRepo {
	return &CardRepo{db: db}
}

// WithTx returns a CardRepo bound to the given transaction.
func (r *CardRepo) WithTx(tx *sql.Tx) *CardRepo {
	return &CardRepo{db: tx}
}

// Upsert inserts or wholesale-replaces a card by id.
func (r *CardRepo) Upsert(ctx context.Context, c *CardRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cards (`+cardColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		 name = excluded.name, name_lower = excluded.name_lower,
		 name_normalized = excluded.name_normalized,
		 search_normalized = excluded.search_normalized,
		 first_letter = excluded.first_letter, tokens = excluded.tokens,
		 initials = excluded.initials,
		 progressive_initials = excluded.progressive_initials,
		 variant_tags = excluded.variant_tags,
		 is_foil_variant = excluded.is_foil_variant,
		 set_code = excluded.set_code, set_name = excluded.set_name,
		 collector_number = excluded.collector_number, rarity = excluded.rarity,
		 type_line = excluded.type_line, image_url = excluded.image_url,
		 image_url_back = excluded.image_url_back`,
		c.ID, c.Name, c.NameLower, c.NameNormalized, c.SearchNormalized, c.FirstLetter,
		encodeStrings(c.Tokens), c.Initials, encodeStrings(c.ProgressiveInitials),
		encodeStrings(c.VariantTags), c.IsFoilVariant,
		c.SetCode, c.SetName, c.CollectorNumber, c.Rarity, c.TypeLine,
		c.ImageURL, c.ImageURLBack,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert card: %w", err)
	}
	return nil
}

// GetByID gets a card by its global id.
// Returns ErrNotFound if the card does not exist.
func (r *CardRepo) GetByID(ctx context.Context, id int64) (*CardRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	c, err := scanCard(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query card: %w", err)
	}
	return c, nil
}

// IDsBySet returns the ids of every card in a set. Callers that clear a set
// collect the matching keys first, then delete by key, so deletion never
// races an ongoing scan.
func (r *CardRepo) IDsBySet(ctx context.Context, setCode string) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM cards WHERE set_code = ? ORDER BY id`, setCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query card ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan card id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteByIDs removes cards by id, in chunks to keep statements bounded.
func (r *CardRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	const chunkSize = 500
	for start := 0; start < len(ids); start += chunkSize {
		end := start + chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		placeholders := strings.Repeat("?,", len(chunk))
		placeholders = placeholders[:len(placeholders)-1]
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		if _, err := r.db.ExecContext(ctx,
			`DELETE FROM cards WHERE id IN (`+placeholders+`)`, args...); err != nil {
			return fmt.Errorf("failed to delete cards: %w", err)
		}
	}
	return nil
}

// DeleteAll empties the card table.
func (r *CardRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("failed to delete cards: %w", err)
	}
	return nil
}

// ScanByFirstLetter returns cards whose first_letter matches, optionally
// scoped to the given set codes.
func (r *CardRepo) ScanByFirstLetter(ctx context.Context, letter string, setCodes []string) ([]*CardRecord, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE first_letter = ?`
	args := []any{letter}
	query, args = appendSetFilter(query, args, setCodes)
	query += ` ORDER BY search_normalized, id`
	return r.queryCards(ctx, query, args...)
}

// ScanByInitialsPrefix returns cards whose initials start with the given
// prefix, optionally scoped to the given set codes.
func (r *CardRepo) ScanByInitialsPrefix(ctx context.Context, prefix string, setCodes []string) ([]*CardRecord, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE initials != '' AND initials LIKE ? ESCAPE '\'`
	args := []any{escapeLike(prefix) + "%"}
	query, args = appendSetFilter(query, args, setCodes)
	query += ` ORDER BY initials, id`
	return r.queryCards(ctx, query, args...)
}

// ScanBySearchPrefix returns up to limit cards whose search_normalized form
// starts with the query, in index order. The upper bound appends a
// high-sentinel rune to the prefix.
func (r *CardRepo) ScanBySearchPrefix(ctx context.Context, prefix string, setCodes []string, limit int) ([]*CardRecord, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE search_normalized >= ? AND search_normalized < ?`
	args := []any{prefix, prefix + "￿"}
	query, args = appendSetFilter(query, args, setCodes)
	query += ` ORDER BY search_normalized, id LIMIT ?`
	args = append(args, limit)
	return r.queryCards(ctx, query, args...)
}

// ListMissingDerived returns up to limit legacy cards with id greater than
// afterID, ordered by id so migration can walk the table incrementally. An
// empty tokens column is the legacy marker: the encoder always writes at
// least "[]", while initials can legitimately be empty (symbol-only names).
func (r *CardRepo) ListMissingDerived(ctx context.Context, afterID int64, limit int) ([]*CardRecord, error) {
	return r.queryCards(ctx,
		`SELECT `+cardColumns+` FROM cards
		 WHERE id > ? AND tokens = ''
		 ORDER BY id LIMIT ?`,
		afterID, limit)
}

// CountMissingDerived counts cards lacking derived search fields.
func (r *CardRepo) CountMissingDerived(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cards WHERE tokens = ''`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unmigrated cards: %w", err)
	}
	return n, nil
}

func (r *CardRepo) queryCards(ctx context.Context, query string, args ...any) ([]*CardRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []*CardRecord
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*CardRecord, error) {
	var c CardRecord
	var tokens, progressive, tags string
	err := row.Scan(
		&c.ID, &c.Name, &c.NameLower, &c.NameNormalized, &c.SearchNormalized, &c.FirstLetter,
		&tokens, &c.Initials, &progressive, &tags, &c.IsFoilVariant,
		&c.SetCode, &c.SetName, &c.CollectorNumber, &c.Rarity, &c.TypeLine,
		&c.ImageURL, &c.ImageURLBack,
	)
	if err != nil {
		return nil, err
	}
	c.Tokens = decodeStrings(tokens)
	c.ProgressiveInitials = decodeStrings(progressive)
	c.VariantTags = decodeStrings(tags)
	return &c, nil
}

func appendSetFilter(query string, args []any, setCodes []string) (string, []any) {
	if len(setCodes) == 0 {
		return query, args
	}
	placeholders := strings.Repeat("?,", len(setCodes))
	placeholders = placeholders[:len(placeholders)-1]
	query += ` AND set_code IN (` + placeholders + `)`
	for _, code := range setCodes {
		args = append(args, code)
	}
	return query, args
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

// encodeStrings stores a string slice as a JSON column. The empty string
// (never produced here, only by the legacy schema) marks rows whose derived
// fields still need migration.
func encodeStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}
