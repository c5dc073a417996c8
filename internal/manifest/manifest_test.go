package manifest_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/g5becks/mathspan/internal/manifest"
	"github.com/g5becks/mathspan/internal/segment"
)

func TestNew(t *testing.T) {
	m := manifest.New()

	if m.Version != manifest.CurrentVersion {
		t.Errorf("Version = %q, want %q", m.Version, manifest.CurrentVersion)
	}

	if m.Collections == nil {
		t.Error("Collections should be initialized")
	}

	if m.Generated.IsZero() {
		t.Error("Generated time should be set")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	span := manifest.Span{
		Kind:    segment.KindInlineMath,
		Source:  `\frac{1}{2} + \foo`,
		Line:    3,
		Heading: "Intro",
		Nodes:   6,
		Unknown: []string{"foo"},
	}

	original := manifest.New()
	original.Collections["test"] = &manifest.Collection{
		Name:     "test",
		Type:     "url",
		Location: "https://example.com/notes.md",
		LastScan: time.Now().Truncate(time.Second),
		ETag:     `"abc"`,
		Files: []manifest.FileInfo{
			{
				Path:        "notes.md",
				Type:        "md",
				Size:        512,
				Lines:       20,
				Modified:    time.Now().Truncate(time.Second),
				SHA256:      "deadbeef",
				Description: "Test file",
				Math:        []manifest.Span{span},
				Unknown:     []string{"foo"},
			},
		},
	}
	original.Collections["test"].Recount()

	if err := original.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Version != original.Version {
		t.Errorf("Version = %q, want %q", loaded.Version, original.Version)
	}

	coll := loaded.Collections["test"]
	if coll == nil {
		t.Fatal("Collection 'test' not found")
	}

	if coll.ETag != `"abc"` {
		t.Errorf("ETag = %q, want %q", coll.ETag, `"abc"`)
	}

	if coll.FileCount != 1 || coll.SpanCount != 1 || coll.UnknownCount != 1 || coll.TotalSize != 512 {
		t.Errorf("counters = %d files, %d spans, %d unknown, %d bytes",
			coll.FileCount, coll.SpanCount, coll.UnknownCount, coll.TotalSize)
	}

	file := coll.File("notes.md")
	if file == nil {
		t.Fatal("File(notes.md) = nil")
	}

	if len(file.Math) != 1 || !reflect.DeepEqual(file.Math[0], span) {
		t.Errorf("Math = %+v, want [%+v]", file.Math, span)
	}
}

func TestCollectionFile(t *testing.T) {
	coll := &manifest.Collection{Files: []manifest.FileInfo{{Path: "a.md"}, {Path: "b.md"}}}

	if got := coll.File("b.md"); got == nil || got.Path != "b.md" {
		t.Errorf("File(b.md) = %v", got)
	}
	if got := coll.File("missing.md"); got != nil {
		t.Errorf("File(missing.md) = %v, want nil", got)
	}

	var nilColl *manifest.Collection
	if got := nilColl.File("a.md"); got != nil {
		t.Errorf("nil collection File() = %v, want nil", got)
	}
}

func TestNamesSorted(t *testing.T) {
	m := manifest.New()
	m.Collections["zeta"] = &manifest.Collection{}
	m.Collections["alpha"] = &manifest.Collection{}

	if got := m.Names(); !reflect.DeepEqual(got, []string{"alpha", "zeta"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestLoadNonExistent(t *testing.T) {
	dir := t.TempDir()

	_, err := manifest.Load(dir)
	if err == nil {
		t.Fatal("Load() should return error for non-existent manifest")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "manifest not found") {
		t.Errorf("Error should mention manifest not found, got: %v", err)
	}
}

func TestLoadCorrupted(t *testing.T) {
	dir := t.TempDir()
	manifestPath := manifest.Path(dir)

	if err := os.WriteFile(manifestPath, []byte("invalid json{"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := manifest.Load(dir)
	if err == nil {
		t.Fatal("Load() should return error for corrupted manifest")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "parsing manifest") {
		t.Errorf("Error should mention parsing manifest, got: %v", err)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	subdir := filepath.Join(dir, "nested", "path")

	m := manifest.New()
	if err := m.Save(subdir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	manifestPath := manifest.Path(subdir)
	if _, err := os.Stat(manifestPath); err != nil {
		t.Errorf("Manifest file should exist at %q", manifestPath)
	}
}

func TestSaveNilManifest(t *testing.T) {
	dir := t.TempDir()

	var m *manifest.Manifest
	err := m.Save(dir)
	if err == nil {
		t.Fatal("Save() should return error for nil manifest")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "cannot save nil manifest") {
		t.Errorf("Error should mention nil manifest, got: %v", err)
	}
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()

	m := manifest.New()
	if err := m.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Check no temp files left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp") {
			t.Errorf("Temp file should be cleaned up: %s", entry.Name())
		}
	}

	manifestPath := manifest.Path(dir)
	if _, statErr := os.Stat(manifestPath); statErr != nil {
		t.Errorf("Manifest file should exist at %q", manifestPath)
	}
}
