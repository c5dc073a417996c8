package ui_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/g5becks/mathspan/internal/manifest"
	"github.com/g5becks/mathspan/internal/render"
	"github.com/g5becks/mathspan/internal/search"
	"github.com/g5becks/mathspan/internal/segment"
	"github.com/g5becks/mathspan/internal/ui"
)

func TestRenderSegments(t *testing.T) {
	segments := segment.Split("area $\\pi r^2$ here")

	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, out string)
	}{
		{
			name:   "table",
			format: ui.FormatTable,
			check: func(t *testing.T, out string) {
				if !strings.Contains(out, "inline_math") || !strings.Contains(out, `\pi r^2`) {
					t.Errorf("table output missing math row:\n%s", out)
				}
			},
		},
		{
			name:   "json",
			format: ui.FormatJSON,
			check: func(t *testing.T, out string) {
				var decoded []segment.Segment
				if err := json.Unmarshal([]byte(out), &decoded); err != nil {
					t.Fatalf("JSON unmarshal error = %v, output:\n%s", err, out)
				}
				if len(decoded) != 3 || decoded[1].Kind != segment.KindInlineMath {
					t.Errorf("decoded = %+v, want 3 segments with math in the middle", decoded)
				}
			},
		},
		{
			name:   "csv",
			format: ui.FormatCSV,
			check: func(t *testing.T, out string) {
				records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
				if err != nil {
					t.Fatalf("csv error = %v", err)
				}
				if len(records) != 4 || records[0][0] != "kind" || records[2][1] != `\pi r^2` {
					t.Errorf("records = %v", records)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := ui.RenderSegments(&buf, segments, tt.format, 0); err != nil {
				t.Fatalf("RenderSegments() error = %v", err)
			}
			tt.check(t, buf.String())
		})
	}
}

func TestRenderSegmentsEmptyJSONIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := ui.RenderSegments(&buf, nil, ui.FormatJSON, 0); err != nil {
		t.Fatalf("RenderSegments() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("RenderSegments(nil) = %q, want []", got)
	}
}

func TestRenderSegmentsTruncates(t *testing.T) {
	var buf bytes.Buffer
	segments := []segment.Segment{{Kind: segment.KindText, Text: strings.Repeat("αβγ", 20)}}
	if err := ui.RenderSegments(&buf, segments, ui.FormatTable, 10); err != nil {
		t.Fatalf("RenderSegments() error = %v", err)
	}
	if !strings.Contains(buf.String(), "αβγαβγα...") {
		t.Errorf("table output not truncated on rune boundary:\n%s", buf.String())
	}
}

func TestRenderParts(t *testing.T) {
	parts := render.New(nil).Render(`x $\frac{1}{2}$`)

	var buf bytes.Buffer
	if err := ui.RenderParts(&buf, parts, ui.FormatTable, 0); err != nil {
		t.Fatalf("RenderParts() error = %v", err)
	}
	if !strings.Contains(buf.String(), `\frac{1}{2}`) {
		t.Errorf("table output missing expression:\n%s", buf.String())
	}

	buf.Reset()
	if err := ui.RenderParts(&buf, parts, ui.FormatJSON, 0); err != nil {
		t.Fatalf("RenderParts(json) error = %v", err)
	}
	if !strings.Contains(buf.String(), `"type": "fraction"`) {
		t.Errorf("json output missing tree:\n%s", buf.String())
	}
}

func TestRenderSymbols(t *testing.T) {
	results := []search.SymbolResult{{Name: "alpha", Glyph: "α", Category: "greek"}}

	var buf bytes.Buffer
	if err := ui.RenderSymbols(&buf, results, ui.FormatTable); err != nil {
		t.Fatalf("RenderSymbols() error = %v", err)
	}
	if !strings.Contains(buf.String(), `\alpha`) || !strings.Contains(buf.String(), "α") {
		t.Errorf("table output = %s", buf.String())
	}

	buf.Reset()
	if err := ui.RenderSymbols(&buf, results, ui.FormatCSV); err != nil {
		t.Fatalf("RenderSymbols(csv) error = %v", err)
	}
	if buf.String() != "name,glyph,category\nalpha,α,greek\n" {
		t.Errorf("csv output = %q", buf.String())
	}
}

func TestRenderSpans(t *testing.T) {
	results := []search.SpanResult{{
		Collection: "notes",
		Path:       "a.md",
		Line:       12,
		Kind:       segment.KindBlockMath,
		Source:     `\foo + 1`,
		Unknown:    []string{"foo"},
	}}

	var buf bytes.Buffer
	if err := ui.RenderSpans(&buf, results, ui.FormatTable, 0); err != nil {
		t.Fatalf("RenderSpans() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"a.md:12", "block_math", `\foo + 1`, "foo"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := ui.RenderSpans(&buf, results, ui.FormatJSON, 0); err != nil {
		t.Fatalf("RenderSpans(json) error = %v", err)
	}
	var decoded []search.SpanResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON unmarshal error = %v", err)
	}
	if len(decoded) != 1 || decoded[0].Line != 12 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestRenderCollections(t *testing.T) {
	m := manifest.New()
	m.Collections["notes"] = &manifest.Collection{
		Name:         "notes",
		Type:         "dir",
		Location:     "/docs",
		LastScan:     time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		FileCount:    3,
		SpanCount:    7,
		UnknownCount: 1,
		TotalSize:    2048,
		Files:        []manifest.FileInfo{{Path: "a.md"}},
	}

	var buf bytes.Buffer
	if err := ui.RenderCollections(&buf, m, ui.FormatTable); err != nil {
		t.Fatalf("RenderCollections() error = %v", err)
	}
	if !strings.Contains(buf.String(), "2.0 KB") || !strings.Contains(buf.String(), "notes") {
		t.Errorf("table output = %s", buf.String())
	}

	buf.Reset()
	if err := ui.RenderCollections(&buf, m, ui.FormatJSON); err != nil {
		t.Fatalf("RenderCollections(json) error = %v", err)
	}
	if strings.Contains(buf.String(), "a.md") {
		t.Error("collection JSON includes file list")
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON unmarshal error = %v", err)
	}
	if decoded[0]["spans"] != float64(7) {
		t.Errorf("spans = %v, want 7", decoded[0]["spans"])
	}
}
