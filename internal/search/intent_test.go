package search

import (
	"reflect"
	"testing"
)

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Intent
	}{
		{
			name:  "empty",
			query: "",
			want:  Intent{Kind: IntentEmpty},
		},
		{
			name:  "whitespace only",
			query: "   ",
			want:  Intent{Kind: IntentEmpty},
		},
		{
			name:  "uppercase run is initials",
			query: "LB",
			want:  Intent{Kind: IntentInitials, Query: "lb"},
		},
		{
			name:  "long uppercase run",
			query: "WOTS",
			want:  Intent{Kind: IntentInitials, Query: "wots"},
		},
		{
			name:  "spaced initials",
			query: "L B",
			want:  Intent{Kind: IntentSpaceInitials, Query: "lb"},
		},
		{
			name:  "multi word",
			query: "lightning bolt",
			want:  Intent{Kind: IntentMultiToken, Query: "lightning", Tokens: []string{"lightning", "bolt"}},
		},
		{
			name:  "mixed case multi word lowers tokens",
			query: "Lightning Bolt",
			want:  Intent{Kind: IntentMultiToken, Query: "lightning", Tokens: []string{"lightning", "bolt"}},
		},
		{
			name:  "single word is prefix",
			query: "light",
			want:  Intent{Kind: IntentPrefix, Query: "light"},
		},
		{
			name:  "single uppercase letter is prefix",
			query: "L",
			want:  Intent{Kind: IntentPrefix, Query: "l"},
		},
		{
			name:  "capitalized word is prefix not initials",
			query: "Bolt",
			want:  Intent{Kind: IntentPrefix, Query: "bolt"},
		},
		{
			name:  "surrounding whitespace trimmed",
			query: "  LB  ",
			want:  Intent{Kind: IntentInitials, Query: "lb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectIntent(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectIntent(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestMatchesInitials(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		initials    string
		progressive []string
		want        bool
	}{
		{"exact", "lb", "lb", nil, true},
		{"query prefixes initials", "l", "lb", nil, true},
		{"progressive hit", "lb", "lbx", []string{"l", "lb", "lbx"}, true},
		{"no match", "zz", "lb", []string{"l", "lb"}, false},
		{"empty query", "", "lb", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchesInitials(tt.query, tt.initials, tt.progressive)
			if got != tt.want {
				t.Errorf("MatchesInitials(%q, %q, %v) = %v, want %v",
					tt.query, tt.initials, tt.progressive, got, tt.want)
			}
		})
	}
}

func TestMatchesTokenPrefixes(t *testing.T) {
	tests := []struct {
		name   string
		query  []string
		tokens []string
		want   bool
	}{
		{"all tokens prefix match", []string{"light", "bo"}, []string{"lightning", "bolt"}, true},
		{"order independent", []string{"bo", "light"}, []string{"lightning", "bolt"}, true},
		{"one token misses", []string{"light", "xx"}, []string{"lightning", "bolt"}, false},
		{"empty query never matches", nil, []string{"lightning"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchesTokenPrefixes(tt.query, tt.tokens)
			if got != tt.want {
				t.Errorf("MatchesTokenPrefixes(%v, %v) = %v, want %v", tt.query, tt.tokens, got, tt.want)
			}
		})
	}
}
