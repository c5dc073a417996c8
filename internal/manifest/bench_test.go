package manifest_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/g5becks/mathspan/internal/manifest"
	"github.com/g5becks/mathspan/internal/segment"
)

func BenchmarkManifestLoad100Files(b *testing.B) {
	benchmarkLoad(b, 100)
}

func BenchmarkManifestLoad1000Files(b *testing.B) {
	benchmarkLoad(b, 1000)
}

func BenchmarkManifestSave1000Files(b *testing.B) {
	dir := b.TempDir()
	m := buildManifest(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.Save(dir); err != nil {
			b.Fatalf("save failed: %v", err)
		}
	}
}

func benchmarkLoad(b *testing.B, files int) {
	b.Helper()

	dir := b.TempDir()
	if err := buildManifest(files).Save(dir); err != nil {
		b.Fatalf("save failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := manifest.Load(dir); err != nil {
			b.Fatalf("load failed: %v", err)
		}
	}
}

func buildManifest(files int) *manifest.Manifest {
	coll := &manifest.Collection{
		Name:     "bench",
		Type:     "dir",
		Location: "/bench",
		LastScan: time.Now(),
	}

	for i := range files {
		coll.Files = append(coll.Files, manifest.FileInfo{
			Path:        fmt.Sprintf("docs/file%04d.md", i),
			Type:        "md",
			Size:        2048,
			Lines:       80,
			Modified:    time.Now(),
			SHA256:      fmt.Sprintf("%064x", i),
			Description: fmt.Sprintf("File %d - benchmark document", i),
			Math: []manifest.Span{
				{Kind: segment.KindInlineMath, Source: `x^2 + y^2 = r^2`, Line: 3, Heading: "Circle", Nodes: 8},
				{Kind: segment.KindBlockMath, Source: `\sum_{k=1}^{n} k = \frac{n(n+1)}{2}`, Line: 7, Nodes: 21},
			},
		})
	}
	coll.Recount()

	m := manifest.New()
	m.Collections[coll.Name] = coll
	return m
}
