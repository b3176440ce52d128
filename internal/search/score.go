package search

import (
	"strings"

	"cardstash/internal/storage"
)

// Scoring weights. Lower scores are better. A well-aligned multi-token
// match always stays below scoreCeiling, which callers use to sanity-bound
// "good" matches.
const (
	scoreCeiling = 1000

	initialsExact    = 0
	initialsPartial  = 100
	tokenAlignWeight = 50
	tokenMissWeight  = 250
	tokenExtraWeight = 5

	scoreNoMatch = 1 << 20
)

// ScoreMatch scores a candidate for an intent; lower is better. It always
// returns a finite score, even for malformed records or unknown intents, so
// a single bad record can never fail a lookup.
func ScoreMatch(in Intent, c *storage.CardRecord) int {
	if c == nil {
		return scoreNoMatch
	}

	switch in.Kind {
	case IntentInitials, IntentSpaceInitials:
		if c.Initials == in.Query {
			return initialsExact
		}
		return initialsPartial

	case IntentPrefix:
		name := c.NameNormalized
		if name == "" {
			name = strings.ToLower(c.Name)
		}
		if idx := strings.Index(name, in.Query); idx >= 0 {
			return idx
		}
		return scoreNoMatch

	case IntentMultiToken:
		return scoreTokenAlignment(in.Tokens, c.Tokens)
	}

	return scoreNoMatch
}

// scoreTokenAlignment rewards query tokens that align with early card
// tokens and penalizes query tokens with no prefix match. Aligning the
// first query token with the first card token scores strictly better than
// any later alignment.
func scoreTokenAlignment(queryTokens, cardTokens []string) int {
	if len(queryTokens) == 0 || len(cardTokens) == 0 {
		return scoreNoMatch
	}

	score := 0
	for _, q := range queryTokens {
		best := -1
		for i, c := range cardTokens {
			if strings.HasPrefix(c, q) {
				best = i
				break
			}
		}
		if best < 0 {
			score += tokenMissWeight
			continue
		}
		score += best * tokenAlignWeight
	}

	// Tighter names win ties between otherwise equal alignments.
	if extra := len(cardTokens) - len(queryTokens); extra > 0 {
		score += extra * tokenExtraWeight
	}
	return score
}
