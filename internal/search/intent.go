// Package search classifies card queries into intents, generates candidates
// from the card index, and orders them by score. Searching is best-effort:
// when an index-backed strategy fails, the engine degrades to a basic
// substring scan instead of surfacing the failure.
package search

import (
	"strings"
	"unicode"
)

// IntentKind identifies the matching strategy a query dispatches to.
type IntentKind string

const (
	// IntentEmpty is a blank or whitespace-only query.
	IntentEmpty IntentKind = "empty"
	// IntentInitials is an all-uppercase run like "LB".
	IntentInitials IntentKind = "initials"
	// IntentSpaceInitials is uppercase letters separated by single spaces,
	// like "L B".
	IntentSpaceInitials IntentKind = "space_initials"
	// IntentMultiToken is a query of two or more words.
	IntentMultiToken IntentKind = "multi_token"
	// IntentPrefix is a single lowercase word matched as a name prefix.
	IntentPrefix IntentKind = "prefix"
)

// Intent carries the classified query. Query is lowercased; Tokens is only
// populated for multi-token intents.
type Intent struct {
	Kind   IntentKind
	Query  string
	Tokens []string
}

// DetectIntent classifies a raw query string.
func DetectIntent(query string) Intent {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return Intent{Kind: IntentEmpty}
	}

	if len([]rune(trimmed)) >= 2 && isAllUpper(trimmed) {
		return Intent{Kind: IntentInitials, Query: strings.ToLower(trimmed)}
	}

	if letters, ok := spacedInitials(trimmed); ok {
		return Intent{Kind: IntentSpaceInitials, Query: strings.ToLower(letters)}
	}

	fields := strings.Fields(trimmed)
	if len(fields) >= 2 {
		tokens := make([]string, len(fields))
		for i, f := range fields {
			tokens[i] = strings.ToLower(f)
		}
		return Intent{Kind: IntentMultiToken, Query: tokens[0], Tokens: tokens}
	}

	return Intent{Kind: IntentPrefix, Query: strings.ToLower(trimmed)}
}

// isAllUpper reports whether s consists solely of uppercase letters.
func isAllUpper(s string) bool {
	for _, r := range s {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// spacedInitials recognizes uppercase letters separated by single spaces
// ("L B" or "W O T S") and returns them concatenated.
func spacedInitials(s string) (string, bool) {
	parts := strings.Split(s, " ")
	if len(parts) < 2 {
		return "", false
	}
	var b strings.Builder
	for _, p := range parts {
		if len([]rune(p)) != 1 || !isAllUpper(p) {
			return "", false
		}
		b.WriteString(p)
	}
	return b.String(), true
}

// MatchesInitials reports whether a card's initials satisfy an initials
// query: either the initials start with the query or the progressive
// initials contain it exactly.
func MatchesInitials(query, initials string, progressive []string) bool {
	if query == "" {
		return false
	}
	if initials != "" && strings.HasPrefix(initials, query) {
		return true
	}
	for _, p := range progressive {
		if p == query {
			return true
		}
	}
	return false
}

// MatchesTokenPrefixes reports whether every query token is a prefix of at
// least one card token. Order-independent; each query token may reuse any
// card token. An empty query never matches.
func MatchesTokenPrefixes(queryTokens, cardTokens []string) bool {
	if len(queryTokens) == 0 {
		return false
	}
	for _, q := range queryTokens {
		matched := false
		for _, c := range cardTokens {
			if strings.HasPrefix(c, q) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
