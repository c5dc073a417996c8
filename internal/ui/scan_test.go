package ui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/g5becks/mathspan/internal/manifest"
	"github.com/g5becks/mathspan/internal/scan"
	"github.com/g5becks/mathspan/internal/ui"
)

var errMock = errors.New("mock error")

func newTestPrinter(buf *bytes.Buffer, dryRun bool) *ui.ScanPrinter {
	return ui.NewScanPrinterWithWriter(buf, dryRun)
}

func TestHandleEventStart(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false)

	p.HandleEvent(scan.Event{
		Type:     scan.EventSourceStart,
		Source:   "notes",
		Location: "/docs/notes",
	})

	out := buf.String()
	if !strings.Contains(out, "notes") {
		t.Errorf("start event output missing source name, got: %q", out)
	}
	if !strings.Contains(out, "scanning") {
		t.Errorf("start event output missing 'scanning', got: %q", out)
	}
}

func TestHandleEventDoneSuccess(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false)

	p.HandleEvent(scan.Event{
		Type:   scan.EventSourceDone,
		Source: "notes",
		Result: &scan.SourceResult{
			Parsed:     5,
			Reused:     2,
			Collection: &manifest.Collection{SpanCount: 9},
		},
	})

	out := buf.String()
	for _, want := range []string{"notes", "9 span(s)", "5 parsed", "2 unchanged"} {
		if !strings.Contains(out, want) {
			t.Errorf("done event output missing %q, got: %q", want, out)
		}
	}
	if strings.Contains(out, "skipped") {
		t.Errorf("done event output mentions zero skipped, got: %q", out)
	}
}

func TestHandleEventDoneNotModified(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false)

	p.HandleEvent(scan.Event{
		Type:   scan.EventSourceDone,
		Source: "paper",
		Result: &scan.SourceResult{NotModified: true},
	})

	if !strings.Contains(buf.String(), "not modified") {
		t.Errorf("not-modified output = %q", buf.String())
	}
}

func TestHandleEventDoneError(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false)

	p.HandleEvent(scan.Event{
		Type:   scan.EventSourceDone,
		Source: "broken",
		Err:    errMock,
	})

	out := buf.String()
	if !strings.Contains(out, "broken") || !strings.Contains(out, "mock error") {
		t.Errorf("error output = %q", out)
	}
}

func TestPrintSummary(t *testing.T) {
	result := &scan.RunResult{Sources: []scan.SourceResult{
		{Name: "a", Collection: &manifest.Collection{FileCount: 2, SpanCount: 4, UnknownCount: 1}},
		{Name: "b", Err: errMock},
	}}

	var buf bytes.Buffer
	newTestPrinter(&buf, false).PrintSummary(result)

	out := buf.String()
	for _, want := range []string{"scan complete", "2 source(s)", "2 file(s)", "4 span(s)", "1 unknown", "1 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q, got: %q", want, out)
		}
	}
}

func TestPrintSummaryDryRun(t *testing.T) {
	var buf bytes.Buffer
	newTestPrinter(&buf, true).PrintSummary(&scan.RunResult{})

	out := buf.String()
	if !strings.Contains(out, "dry-run complete") || !strings.Contains(out, "manifest was not written") {
		t.Errorf("dry-run summary = %q", out)
	}
}

func TestPrintSummaryNil(t *testing.T) {
	var buf bytes.Buffer
	newTestPrinter(&buf, false).PrintSummary(nil)

	if buf.Len() != 0 {
		t.Errorf("PrintSummary(nil) wrote %q", buf.String())
	}
}
