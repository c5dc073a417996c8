package search_test

import (
	"slices"
	"testing"
	"time"

	"github.com/g5becks/mathspan/internal/manifest"
	"github.com/g5becks/mathspan/internal/search"
	"github.com/g5becks/mathspan/internal/segment"
)

func buildTestManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Version:   "1.0.0",
		Generated: time.Now(),
		Collections: map[string]*manifest.Collection{
			"notes": {
				Name: "notes",
				Type: "dir",
				Files: []manifest.FileInfo{
					{
						Path: "series.md",
						Type: "md",
						Math: []manifest.Span{
							{Kind: segment.KindInlineMath, Source: `\sum_{n=1}^{\infty} a_n`, Line: 4, Heading: "Convergence"},
							{Kind: segment.KindBlockMath, Source: `\frac{1}{1-x}`, Line: 9, Heading: "Geometric series"},
						},
					},
					{
						Path: "limits.md",
						Type: "md",
						Math: []manifest.Span{
							{Kind: segment.KindInlineMath, Source: `\lim_{x \to 0} \foo(x)`, Line: 2, Unknown: []string{"foo"}},
						},
					},
				},
			},
			"paper": {
				Name: "paper",
				Type: "url",
				Files: []manifest.FileInfo{
					{
						Path: "paper.md",
						Type: "md",
						Math: []manifest.Span{
							{Kind: segment.KindInlineMath, Source: `\sum_i x_i`, Line: 7},
						},
					},
				},
			},
		},
	}
}

func TestSpans_QueryMatchesSource(t *testing.T) {
	t.Parallel()
	m := buildTestManifest()

	results, err := search.Spans(m, search.SpanOptions{Query: "sum"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Spans() returned %d results, want 2: %+v", len(results), results)
	}

	for _, r := range results {
		if r.MatchField != "source" {
			t.Errorf("MatchField = %q, want source", r.MatchField)
		}
	}
}

func TestSpans_QueryMatchesHeading(t *testing.T) {
	t.Parallel()
	m := buildTestManifest()

	results, err := search.Spans(m, search.SpanOptions{Query: "Geometric"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Spans() returned %d results, want 1", len(results))
	}
	if results[0].Line != 9 || results[0].MatchField != "heading" {
		t.Errorf("result = %+v, want heading match on line 9", results[0])
	}
}

func TestSpans_EmptyQueryListsInOrder(t *testing.T) {
	t.Parallel()
	m := buildTestManifest()

	results, err := search.Spans(m, search.SpanOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, r := range results {
		got = append(got, r.Collection+"/"+r.Path)
	}

	want := []string{"notes/series.md", "notes/series.md", "notes/limits.md", "paper/paper.md"}
	if !slices.Equal(got, want) {
		t.Errorf("Spans() order = %v, want %v", got, want)
	}
}

func TestSpans_Filters(t *testing.T) {
	t.Parallel()
	m := buildTestManifest()

	tests := []struct {
		name string
		opts search.SpanOptions
		want int
	}{
		{name: "collection", opts: search.SpanOptions{Collection: "paper"}, want: 1},
		{name: "unknown only", opts: search.SpanOptions{UnknownOnly: true}, want: 1},
		{name: "limit", opts: search.SpanOptions{Limit: 2}, want: 2},
		{name: "collection with query", opts: search.SpanOptions{Collection: "notes", Query: "sum"}, want: 1},
		{name: "no match", opts: search.SpanOptions{Query: "zzzzqqq"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			results, err := search.Spans(m, tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tt.want {
				t.Errorf("Spans() returned %d results, want %d", len(results), tt.want)
			}
		})
	}
}

func TestSpans_UnknownCollection(t *testing.T) {
	t.Parallel()

	_, err := search.Spans(buildTestManifest(), search.SpanOptions{Collection: "missing"})
	if err == nil {
		t.Fatal("expected error for unknown collection")
	}
}

func TestSpans_NilManifest(t *testing.T) {
	t.Parallel()

	if _, err := search.Spans(nil, search.SpanOptions{}); err == nil {
		t.Fatal("expected error for nil manifest")
	}
}

func TestSpans_DedupesFieldsPerSpan(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{Collections: map[string]*manifest.Collection{
		"c": {Files: []manifest.FileInfo{{
			Path: "a.md",
			Math: []manifest.Span{{Source: "convergence", Heading: "Convergence", Line: 1}},
		}}},
	}}

	results, err := search.Spans(m, search.SpanOptions{Query: "conv"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Spans() returned %d results, want 1", len(results))
	}
}
