package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/g5becks/mathspan/internal/symbols"
)

// glyphScore ranks an exact glyph hit above any fuzzy name match.
const glyphScore = 1 << 20

type SymbolResult struct {
	Name     string           `json:"name"`
	Glyph    string           `json:"glyph"`
	Category symbols.Category `json:"category"`
	Score    int              `json:"score"`
}

type entryNames []symbols.Entry

func (e entryNames) String(i int) string { return e[i].Name }
func (e entryNames) Len() int            { return len(e) }

// Symbols finds command table entries whose name fuzzy-matches query or
// whose glyph equals it. An empty query lists the whole table.
func Symbols(query string, limit int) []SymbolResult {
	entries := symbols.Entries()
	query = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(query), `\`))

	var results []SymbolResult
	if query == "" {
		results = make([]SymbolResult, 0, len(entries))
		for _, e := range entries {
			results = append(results, SymbolResult{Name: e.Name, Glyph: e.Glyph, Category: e.Category})
		}
	} else {
		results = matchSymbols(query, entries)
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func matchSymbols(query string, entries []symbols.Entry) []SymbolResult {
	best := make(map[string]SymbolResult)

	for _, e := range entries {
		if e.Glyph == query {
			best[e.Name] = SymbolResult{Name: e.Name, Glyph: e.Glyph, Category: e.Category, Score: glyphScore}
		}
	}

	for _, match := range fuzzy.FindFrom(query, entryNames(entries)) {
		e := entries[match.Index]
		score := match.Score
		if e.Name == query {
			score = glyphScore
		}
		if existing, ok := best[e.Name]; !ok || score > existing.Score {
			best[e.Name] = SymbolResult{Name: e.Name, Glyph: e.Glyph, Category: e.Category, Score: score}
		}
	}

	results := make([]SymbolResult, 0, len(best))
	for _, r := range best {
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})

	return results
}
