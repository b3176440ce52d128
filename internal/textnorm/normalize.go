// Package textnorm derives canonical, search-friendly forms from raw card
// display names. Every function is pure and deterministic so derived fields
// can be recomputed from the stored name during schema migration.
package textnorm

import (
	"regexp"
	"strings"
)

// stopwords are dropped when tokenizing names for search.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "at": {}, "for": {}, "in": {},
	"of": {}, "on": {}, "or": {}, "the": {}, "to": {},
}

// styleKeywords are parenthetical decorations recognized on printings.
// A trailing parenthetical matching one of these is stripped from the
// display name but preserved as a variant tag.
var styleKeywords = map[string]struct{}{
	"borderless":         {},
	"extended art":       {},
	"showcase":           {},
	"foil etched":        {},
	"etched":             {},
	"surge foil":         {},
	"galaxy foil":        {},
	"halo foil":          {},
	"textured foil":      {},
	"gilded foil":        {},
	"retro frame":        {},
	"retro":              {},
	"full art":           {},
	"alternate art":      {},
	"concept art":        {},
	"serialized":         {},
	"phyrexian":          {},
	"anime":              {},
	"manga":              {},
	"step-and-compleat":  {},
	"compleat":           {},
	"profile":            {},
	"poster":             {},
	"japanese alternate": {},
}

var (
	emblemRe       = regexp.MustCompile(`^Emblem\s*-\s*(.+)$`)
	trailingParenRe = regexp.MustCompile(`\s*\(([^()]*)\)\s*$`)
	parenRe        = regexp.MustCompile(`\(([^()]*)\)`)
	numberRe       = regexp.MustCompile(`^0*\d+$`)
	fractionRe     = regexp.MustCompile(`^\d+\s*/\s*\d+$`)
	neonRe         = regexp.MustCompile(`\bNeon [A-Z][a-z]+\b`)
)

// NormalizeDisplayName reduces a raw printing name to its canonical display
// form: front face only, "Emblem - X" rewritten to "X Emblem", recognized
// trailing parentheticals stripped, trailing " Token" suffix removed.
// Idempotent: normalizing an already-normalized name is a no-op.
func NormalizeDisplayName(raw string) string {
	name := raw
	if i := strings.Index(name, "//"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)

	if m := emblemRe.FindStringSubmatch(name); m != nil {
		name = strings.TrimSpace(m[1]) + " Emblem"
	}

	// Strip recognized trailing parentheticals from the end, innermost
	// last, stopping at the first non-recognized one. Decorations are
	// appended after the name, so unwrapping from the right peels them in
	// reverse application order; an unrecognized inner parenthetical is
	// part of the name and shields everything before it.
	for {
		m := trailingParenRe.FindStringSubmatchIndex(name)
		if m == nil {
			break
		}
		content := strings.TrimSpace(name[m[2]:m[3]])
		if !isDecoration(content) {
			break
		}
		name = strings.TrimSpace(name[:m[0]])
	}

	// " Token" requires a preceding word so a bare "Token" survives.
	if trimmed, ok := strings.CutSuffix(name, " Token"); ok && trimmed != "" {
		name = trimmed
	}

	return strings.TrimSpace(name)
}

// isDecoration reports whether a parenthetical content is a recognized
// decoration: a known style keyword, a collector number, or a fraction.
func isDecoration(content string) bool {
	if content == "" {
		return false
	}
	if numberRe.MatchString(content) || fractionRe.MatchString(content) {
		return true
	}
	_, ok := styleKeywords[strings.ToLower(content)]
	return ok
}

// ExtractVariantTags collects printing-style markers from a raw name.
// Parenthetical groups whose content is a pure number or fraction are
// collector-number noise and skipped; everything else is kept verbatim.
// An embedded "Neon <Color>" marker outside parentheses is also a tag.
// isFoil is true iff any tag contains "foil" case-insensitively.
func ExtractVariantTags(raw string) (tags []string, isFoil bool) {
	seen := make(map[string]struct{})
	for _, m := range parenRe.FindAllStringSubmatch(raw, -1) {
		content := strings.TrimSpace(m[1])
		if content == "" || numberRe.MatchString(content) || fractionRe.MatchString(content) {
			continue
		}
		if _, dup := seen[content]; dup {
			continue
		}
		seen[content] = struct{}{}
		tags = append(tags, content)
	}

	outside := parenRe.ReplaceAllString(raw, " ")
	if m := neonRe.FindString(outside); m != "" {
		if _, dup := seen[m]; !dup {
			seen[m] = struct{}{}
			tags = append(tags, m)
		}
	}

	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), "foil") {
			isFoil = true
			break
		}
	}
	return tags, isFoil
}

// ExtractTokens splits a name into ordered lowercase search tokens.
// Whitespace, hyphens, and en/em-dashes separate words; stop-words are
// dropped.
func ExtractTokens(name string) []string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		switch r {
		case '-', '–', '—':
			return true
		}
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Initials returns the first character of each token, concatenated.
func Initials(name string) string {
	var b strings.Builder
	for _, tok := range ExtractTokens(name) {
		for _, r := range tok {
			b.WriteRune(r)
			break
		}
	}
	return b.String()
}

// ProgressiveInitials returns every non-empty prefix of Initials(name),
// shortest first.
func ProgressiveInitials(name string) []string {
	runes := []rune(Initials(name))
	if len(runes) == 0 {
		return nil
	}
	prefixes := make([]string, 0, len(runes))
	for i := 1; i <= len(runes); i++ {
		prefixes = append(prefixes, string(runes[:i]))
	}
	return prefixes
}

// NormalizeForSearch lowercases a name, drops apostrophes entirely, and
// replaces every remaining character outside [a-z0-9- ] with a space.
// Interior runs of spaces are not collapsed; only the ends are trimmed.
func NormalizeForSearch(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r == '\'' || r == '’':
			// dropped, no replacement
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

// FirstLetter returns the first character of the search-normalized form,
// or "" for names that normalize to nothing.
func FirstLetter(name string) string {
	s := NormalizeForSearch(name)
	if s == "" {
		return ""
	}
	return s[:1]
}
