package domain

import (
	"sort"
	"strings"
)

// DefaultSequenceKeywords is the logical construction order: foundation
// first, then walls, roof and veranda.
var DefaultSequenceKeywords = []string{"Floor", "Wall", "Roof", "Veranda"}

// SequenceRule maps a filename keyword to a merge rank.
type SequenceRule struct {
	// Keyword is matched as a case-sensitive substring of the file name.
	Keyword string

	// Rank orders documents; lower ranks merge first.
	Rank int
}

// SequenceRules is an ordered rule table. The first matching rule wins.
// Names that match no rule take the fallback rank, one past the last rule.
type SequenceRules []SequenceRule

// NewSequenceRules builds a rule table where each keyword's rank is its index.
func NewSequenceRules(keywords []string) SequenceRules {
	rules := make(SequenceRules, 0, len(keywords))
	for i, kw := range keywords {
		if kw == "" {
			continue
		}
		rules = append(rules, SequenceRule{Keyword: kw, Rank: i})
	}
	return rules
}

// DefaultSequenceRules returns the rule table for DefaultSequenceKeywords.
func DefaultSequenceRules() SequenceRules {
	return NewSequenceRules(DefaultSequenceKeywords)
}

// FallbackRank is the rank of names that match no rule.
func (r SequenceRules) FallbackRank() int {
	highest := -1
	for _, rule := range r {
		if rule.Rank > highest {
			highest = rule.Rank
		}
	}
	return highest + 1
}

// Rank returns the bucket rank for a file name.
func (r SequenceRules) Rank(name string) int {
	for _, rule := range r {
		if strings.Contains(name, rule.Keyword) {
			return rule.Rank
		}
	}
	return r.FallbackRank()
}

// Less orders two names by rank, then lexicographically.
func (r SequenceRules) Less(a, b string) bool {
	ra, rb := r.Rank(a), r.Rank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

// Sort orders names in place using Less.
func (r SequenceRules) Sort(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return r.Less(names[i], names[j])
	})
}
