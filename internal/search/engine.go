package search

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_card_index.go -package=mocks cardstash/internal/search CardIndex

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"cardstash/internal/storage"
)

// DefaultLimit bounds a search when the caller does not supply a limit.
const DefaultLimit = 20

// CardIndex is the slice of the card store the engine scans. All scans honor
// the set-code filter; an empty filter means every cached set.
type CardIndex interface {
	// ScanByFirstLetter returns cards whose first letter matches.
	ScanByFirstLetter(ctx context.Context, letter string, setCodes []string) ([]*storage.CardRecord, error)
	// ScanByInitialsPrefix returns cards whose initials start with prefix.
	ScanByInitialsPrefix(ctx context.Context, prefix string, setCodes []string) ([]*storage.CardRecord, error)
	// ScanBySearchPrefix returns up to limit cards whose normalized search
	// string starts with prefix, in index order.
	ScanBySearchPrefix(ctx context.Context, prefix string, setCodes []string, limit int) ([]*storage.CardRecord, error)
}

// Engine is a stateless classify-generate-score pipeline over a card index.
type Engine struct {
	index  CardIndex
	logger *slog.Logger
}

// NewEngine creates a search engine over the given card index.
func NewEngine(index CardIndex) *Engine {
	return &Engine{index: index, logger: slog.Default()}
}

// Search classifies the query, generates candidates with the matching
// strategy, and returns up to limit results ordered best-first. Index-path
// failures degrade to the basic substring strategy; only a failure of that
// last resort is surfaced.
func (e *Engine) Search(ctx context.Context, query string, setCodes []string, limit int) ([]*storage.CardRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	intent := DetectIntent(query)
	switch intent.Kind {
	case IntentEmpty:
		return nil, nil

	case IntentInitials, IntentSpaceInitials:
		candidates, err := e.generateInitials(ctx, intent, setCodes)
		if err != nil {
			return e.fallback(ctx, query, setCodes, limit, err)
		}
		return rank(intent, candidates, limit), nil

	case IntentMultiToken:
		candidates, err := e.generateMultiToken(ctx, intent, setCodes)
		if err != nil {
			return e.fallback(ctx, query, setCodes, limit, err)
		}
		return rank(intent, candidates, limit), nil

	default:
		// Prefix results come back in index order, already truncated.
		results, err := e.index.ScanBySearchPrefix(ctx, intent.Query, setCodes, limit)
		if err != nil {
			return e.fallback(ctx, query, setCodes, limit, err)
		}
		return results, nil
	}
}

// generateInitials scans the initials index. Records lacking derived fields
// are skipped, not errored.
func (e *Engine) generateInitials(ctx context.Context, in Intent, setCodes []string) ([]*storage.CardRecord, error) {
	scanned, err := e.index.ScanByInitialsPrefix(ctx, in.Query, setCodes)
	if err != nil {
		return nil, err
	}
	var candidates []*storage.CardRecord
	for _, c := range scanned {
		if c.Initials == "" && len(c.ProgressiveInitials) == 0 {
			continue
		}
		if MatchesInitials(in.Query, c.Initials, c.ProgressiveInitials) {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

// generateMultiToken narrows by the first letter of the first query token,
// then requires every query token to prefix-match some card token.
func (e *Engine) generateMultiToken(ctx context.Context, in Intent, setCodes []string) ([]*storage.CardRecord, error) {
	if len(in.Tokens) == 0 {
		return nil, nil
	}
	scanned, err := e.index.ScanByFirstLetter(ctx, firstRune(in.Tokens[0]), setCodes)
	if err != nil {
		return nil, err
	}
	var candidates []*storage.CardRecord
	for _, c := range scanned {
		if len(c.Tokens) == 0 {
			continue
		}
		if MatchesTokenPrefixes(in.Tokens, c.Tokens) {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

// fallback is the basic last-resort strategy: scan by first letter and keep
// substring matches on the normalized name.
func (e *Engine) fallback(ctx context.Context, query string, setCodes []string, limit int, cause error) ([]*storage.CardRecord, error) {
	e.logger.WarnContext(ctx, "index search failed, using fallback scan", "query", query, "error", cause)

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	scanned, err := e.index.ScanByFirstLetter(ctx, firstRune(q), setCodes)
	if err != nil {
		return nil, err
	}

	var results []*storage.CardRecord
	for _, c := range scanned {
		name := c.NameNormalized
		if name == "" {
			name = strings.ToLower(c.Name)
		}
		if strings.Contains(name, q) {
			results = append(results, c)
			if len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

// rank scores every candidate, stable-sorts ascending, and truncates.
func rank(in Intent, candidates []*storage.CardRecord, limit int) []*storage.CardRecord {
	type scored struct {
		card  *storage.CardRecord
		score int
	}
	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = scored{card: c, score: ScoreMatch(in, c)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	results := make([]*storage.CardRecord, len(ranked))
	for i, s := range ranked {
		results[i] = s.card
	}
	return results
}
