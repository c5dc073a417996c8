package ui

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/g5becks/mathspan/internal/manifest"
	"github.com/g5becks/mathspan/internal/mathexpr"
	"github.com/g5becks/mathspan/internal/render"
	"github.com/g5becks/mathspan/internal/search"
	"github.com/g5becks/mathspan/internal/segment"
)

// RenderSegments writes segments in the given format. maxLen truncates
// the text column of tables; JSON and CSV are never truncated.
func RenderSegments(w io.Writer, segments []segment.Segment, format string, maxLen int) error {
	switch format {
	case FormatJSON:
		if segments == nil {
			segments = []segment.Segment{}
		}
		return writeJSON(w, segments, "segments")
	case FormatCSV:
		rows := make([][]string, 0, len(segments))
		for _, s := range segments {
			rows = append(rows, []string{string(s.Kind), s.Text})
		}
		return writeCSV(w, []string{"kind", "text"}, rows)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"#", "KIND", "TEXT"})
	for i, s := range segments {
		t.AppendRow(table.Row{i + 1, s.Kind, truncate(visibleSpace(s.Text), maxLen)})
	}
	t.Render()
	return nil
}

// RenderParts writes rendered parts; math rows show the canonical form of
// the parsed tree and its node count.
func RenderParts(w io.Writer, parts []render.Part, format string, maxLen int) error {
	switch format {
	case FormatJSON:
		if parts == nil {
			parts = []render.Part{}
		}
		return writeJSON(w, parts, "parts")
	case FormatCSV:
		rows := make([][]string, 0, len(parts))
		for _, p := range parts {
			expr, nodes := partExpr(p)
			rows = append(rows, []string{string(p.Kind), p.Text, expr, nodes})
		}
		return writeCSV(w, []string{"kind", "text", "expr", "nodes"}, rows)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"KIND", "TEXT", "EXPR", "NODES"})
	for _, p := range parts {
		expr, nodes := partExpr(p)
		t.AppendRow(table.Row{p.Kind, truncate(visibleSpace(p.Text), maxLen), truncate(expr, maxLen), nodes})
	}
	t.Render()
	return nil
}

func partExpr(p render.Part) (string, string) {
	if p.Expr == nil {
		return "", ""
	}
	return p.Expr.String(), strconv.Itoa(mathexpr.Count(p.Expr))
}

func RenderSymbols(w io.Writer, results []search.SymbolResult, format string) error {
	switch format {
	case FormatJSON:
		if results == nil {
			results = []search.SymbolResult{}
		}
		return writeJSON(w, results, "symbols")
	case FormatCSV:
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{r.Name, r.Glyph, string(r.Category)})
		}
		return writeCSV(w, []string{"name", "glyph", "category"}, rows)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"COMMAND", "GLYPH", "CATEGORY"})
	for _, r := range results {
		t.AppendRow(table.Row{`\` + r.Name, r.Glyph, r.Category})
	}
	t.Render()
	return nil
}

func RenderSpans(w io.Writer, results []search.SpanResult, format string, maxLen int) error {
	switch format {
	case FormatJSON:
		if results == nil {
			results = []search.SpanResult{}
		}
		return writeJSON(w, results, "spans")
	case FormatCSV:
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{
				r.Collection,
				r.Path,
				strconv.Itoa(r.Line),
				string(r.Kind),
				r.Source,
				r.Heading,
				strings.Join(r.Unknown, " "),
			})
		}
		return writeCSV(w, []string{"collection", "path", "line", "kind", "source", "heading", "unknown"}, rows)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"COLLECTION", "LOCATION", "KIND", "SOURCE", "HEADING", "UNKNOWN"})
	for _, r := range results {
		t.AppendRow(table.Row{
			r.Collection,
			r.Path + ":" + strconv.Itoa(r.Line),
			r.Kind,
			truncate(r.Source, maxLen),
			truncate(r.Heading, maxLen),
			strings.Join(r.Unknown, ", "),
		})
	}
	t.Render()
	return nil
}

type collectionOutput struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Location string    `json:"location"`
	Files    int       `json:"files"`
	Spans    int       `json:"spans"`
	Unknown  int       `json:"unknown"`
	Skipped  int       `json:"skipped"`
	Size     int64     `json:"size"`
	LastScan time.Time `json:"last_scan"`
}

// RenderCollections summarizes each collection of m without its files.
func RenderCollections(w io.Writer, m *manifest.Manifest, format string) error {
	collections := make([]collectionOutput, 0, len(m.Collections))
	for _, name := range m.Names() {
		coll := m.Collections[name]
		collections = append(collections, collectionOutput{
			Name:     name,
			Type:     coll.Type,
			Location: coll.Location,
			Files:    coll.FileCount,
			Spans:    coll.SpanCount,
			Unknown:  coll.UnknownCount,
			Skipped:  coll.Skipped,
			Size:     coll.TotalSize,
			LastScan: coll.LastScan,
		})
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, collections, "collections")
	case FormatCSV:
		rows := make([][]string, 0, len(collections))
		for _, c := range collections {
			rows = append(rows, []string{
				c.Name, c.Type, c.Location,
				strconv.Itoa(c.Files), strconv.Itoa(c.Spans), strconv.Itoa(c.Unknown),
				strconv.FormatInt(c.Size, 10), c.LastScan.Format(time.RFC3339),
			})
		}
		return writeCSV(w, []string{"name", "type", "location", "files", "spans", "unknown", "size", "last_scan"}, rows)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"NAME", "TYPE", "FILES", "SPANS", "UNKNOWN", "SIZE", "LAST SCAN"})
	for _, c := range collections {
		t.AppendRow(table.Row{
			c.Name,
			c.Type,
			c.Files,
			c.Spans,
			c.Unknown,
			formatSize(c.Size),
			formatTime(c.LastScan),
		})
	}
	t.Render()
	return nil
}

// visibleSpace keeps multi-line text on one table row.
func visibleSpace(s string) string {
	return strings.NewReplacer("\r\n", "⏎", "\n", "⏎", "\t", " ").Replace(s)
}
