//nolint:testpackage // Benchmarks need unexported buildIndex access for isolated index-cost measurement.
package search

import (
	"fmt"
	"testing"

	"github.com/g5becks/mathspan/internal/manifest"
	"github.com/g5becks/mathspan/internal/segment"
)

func BenchmarkBuildIndex700Files(b *testing.B) {
	m := buildBenchmarkManifest(700)
	var idx searchIndex

	b.ResetTimer()
	for b.Loop() {
		idx = buildIndex(m, "", false)
	}

	if idx.Len() == 0 {
		b.Fatal("expected non-empty index")
	}
}

func BenchmarkSpanSearch700Files(b *testing.B) {
	m := buildBenchmarkManifest(700)

	b.ResetTimer()
	for b.Loop() {
		_, err := Spans(m, SpanOptions{
			Query: "frac",
			Limit: 50,
		})
		if err != nil {
			b.Fatalf("search failed: %v", err)
		}
	}
}

func BenchmarkSymbolSearch(b *testing.B) {
	for b.Loop() {
		if len(Symbols("arrow", 20)) == 0 {
			b.Fatal("expected symbol matches")
		}
	}
}

func buildBenchmarkManifest(fileCount int) *manifest.Manifest {
	m := manifest.New()
	coll := &manifest.Collection{Name: "bench", Type: "dir"}

	for i := range fileCount {
		coll.Files = append(coll.Files, manifest.FileInfo{
			Path: fmt.Sprintf("docs/file-%03d.md", i),
			Type: "md",
			Math: []manifest.Span{
				{Kind: segment.KindInlineMath, Source: fmt.Sprintf(`\frac{%d}{n+1}`, i), Line: 3, Heading: "Ratios"},
				{Kind: segment.KindBlockMath, Source: fmt.Sprintf(`\sum_{k=0}^{%d} x_k`, i), Line: 8, Heading: "Sums"},
			},
		})
	}

	coll.Recount()
	m.Collections["bench"] = coll
	return m
}
