// Package search looks up symbols and scanned math spans with fuzzy
// matching.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/oops"

	"github.com/g5becks/mathspan/internal/manifest"
	"github.com/g5becks/mathspan/internal/segment"
)

// SpanResult is one math span matched in the manifest.
type SpanResult struct {
	Collection string       `json:"collection"`
	Path       string       `json:"path"`
	Line       int          `json:"line"`
	Kind       segment.Kind `json:"kind"`
	Source     string       `json:"source"`
	Heading    string       `json:"heading,omitempty"`
	Unknown    []string     `json:"unknown,omitempty"`
	MatchField string       `json:"match_field,omitempty"`
	Score      int          `json:"score"`
}

// SpanOptions configures span search. An empty Query lists every span
// that passes the filters in document order.
type SpanOptions struct {
	Query       string
	Collection  string
	UnknownOnly bool
	Limit       int
}

type indexEntry struct {
	span       SpanResult
	key        spanKey
	matchValue string
}

type spanKey struct {
	collection string
	path       string
	ordinal    int
}

type searchIndex struct {
	entries []indexEntry
}

func (s searchIndex) String(i int) string {
	return s.entries[i].matchValue
}

func (s searchIndex) Len() int {
	return len(s.entries)
}

// Spans searches span sources and their headings across the manifest.
func Spans(m *manifest.Manifest, opts SpanOptions) ([]SpanResult, error) {
	if m == nil {
		return nil, oops.
			Code("MANIFEST_NOT_FOUND").
			Hint("Run 'mathspan scan' to generate the manifest").
			Errorf("manifest is required")
	}

	if opts.Collection != "" {
		if _, exists := m.Collections[opts.Collection]; !exists {
			return nil, oops.
				Code("COLLECTION_NOT_FOUND").
				With("collection", opts.Collection).
				Hint("Run 'mathspan collections' to see available collections").
				Errorf("collection %q not found", opts.Collection)
		}
	}

	index := buildIndex(m, opts.Collection, opts.UnknownOnly)
	query := strings.TrimSpace(opts.Query)

	var results []SpanResult
	if query == "" {
		for _, entry := range index.entries {
			if entry.span.MatchField == "source" {
				results = append(results, entry.span)
			}
		}
	} else {
		results = rank(query, index)
	}

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

func buildIndex(m *manifest.Manifest, collection string, unknownOnly bool) searchIndex {
	var entries []indexEntry

	for _, name := range m.Names() {
		if collection != "" && name != collection {
			continue
		}

		for _, file := range m.Collections[name].Files {
			for i, span := range file.Math {
				if unknownOnly && len(span.Unknown) == 0 {
					continue
				}

				base := SpanResult{
					Collection: name,
					Path:       file.Path,
					Line:       span.Line,
					Kind:       span.Kind,
					Source:     span.Source,
					Heading:    span.Heading,
					Unknown:    span.Unknown,
				}
				key := spanKey{collection: name, path: file.Path, ordinal: i}

				bySource := base
				bySource.MatchField = "source"
				entries = append(entries, indexEntry{span: bySource, key: key, matchValue: span.Source})

				if span.Heading != "" {
					byHeading := base
					byHeading.MatchField = "heading"
					entries = append(entries, indexEntry{span: byHeading, key: key, matchValue: span.Heading})
				}
			}
		}
	}

	return searchIndex{entries: entries}
}

// rank keeps the best-scoring field per span and orders by score, then
// location.
func rank(query string, index searchIndex) []SpanResult {
	matches := fuzzy.FindFrom(query, index)

	deduped := make(map[spanKey]SpanResult)
	for _, match := range matches {
		if match.Score < 0 {
			continue
		}
		entry := index.entries[match.Index]

		if existing, exists := deduped[entry.key]; !exists || match.Score > existing.Score {
			result := entry.span
			result.Score = match.Score
			deduped[entry.key] = result
		}
	}

	results := make([]SpanResult, 0, len(deduped))
	for _, result := range deduped {
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Collection != results[j].Collection {
			return results[i].Collection < results[j].Collection
		}
		if results[i].Path != results[j].Path {
			return results[i].Path < results[j].Path
		}
		return results[i].Line < results[j].Line
	})

	return results
}
