package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/g5becks/mathspan/internal/scan"
)

type styles struct {
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	dim    *color.Color
	bold   *color.Color
}

func newStyles() styles {
	return styles{
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
	}
}

// ScanPrinter renders scan progress events to stderr with colored output.
type ScanPrinter struct {
	w      io.Writer
	dryRun bool
	mu     sync.Mutex
	s      styles
}

// NewScanPrinter creates a ScanPrinter that writes to stderr.
func NewScanPrinter(dryRun bool) *ScanPrinter {
	return NewScanPrinterWithWriter(os.Stderr, dryRun)
}

// NewScanPrinterWithWriter creates a ScanPrinter that writes to the given writer.
func NewScanPrinterWithWriter(w io.Writer, dryRun bool) *ScanPrinter {
	return &ScanPrinter{
		w:      w,
		dryRun: dryRun,
		s:      newStyles(),
	}
}

// HandleEvent is the callback wired into scan.Options.OnEvent.
func (p *ScanPrinter) HandleEvent(e scan.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Type {
	case scan.EventSourceStart:
		fmt.Fprintf(p.w, "%s scanning %s %s\n",
			p.s.dim.Sprint("⟳"),
			p.s.bold.Sprint(e.Source),
			p.s.dim.Sprint(e.Location),
		)

	case scan.EventSourceDone:
		p.handleDone(e)
	}
}

func (p *ScanPrinter) handleDone(e scan.Event) {
	if e.Err != nil {
		fmt.Fprintf(p.w, "%s %s: %s\n",
			p.s.red.Sprint("✗"),
			p.s.bold.Sprint(e.Source),
			e.Err,
		)
		return
	}

	if e.Result == nil {
		return
	}

	name := p.s.bold.Sprint(e.Source)

	if e.Result.NotModified {
		fmt.Fprintf(p.w, "%s %s %s\n",
			p.s.dim.Sprint("—"),
			name,
			p.s.dim.Sprint("(not modified)"),
		)
		return
	}

	spans := 0
	if e.Result.Collection != nil {
		spans = e.Result.Collection.SpanCount
	}

	fmt.Fprintf(p.w, "%s %s %s\n",
		p.s.green.Sprint("✓"),
		name,
		p.s.dim.Sprint(formatCounts(e.Result.Parsed, e.Result.Reused, e.Result.Skipped, spans)),
	)
}

func formatCounts(parsed, reused, skipped, spans int) string {
	detail := fmt.Sprintf("(%d span(s)", spans)
	if parsed > 0 {
		detail += fmt.Sprintf(", %d parsed", parsed)
	}
	if reused > 0 {
		detail += fmt.Sprintf(", %d unchanged", reused)
	}
	if skipped > 0 {
		detail += fmt.Sprintf(", %d skipped", skipped)
	}
	return detail + ")"
}

// PrintSummary renders a final summary line after the scan completes.
func (p *ScanPrinter) PrintSummary(r *scan.RunResult) {
	if r == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w)

	label := "scan complete"
	if p.dryRun {
		label = p.s.yellow.Sprint("dry-run complete")
	}

	spans, unknown, files := 0, 0, 0
	for _, s := range r.Sources {
		if s.Err != nil || s.Collection == nil {
			continue
		}
		spans += s.Collection.SpanCount
		unknown += s.Collection.UnknownCount
		files += s.Collection.FileCount
	}

	parts := fmt.Sprintf("%s: %d source(s), %d file(s), %d span(s), %d unknown command(s)",
		label,
		len(r.Sources),
		files,
		spans,
		unknown,
	)

	if failed := r.Failed(); failed > 0 {
		parts += fmt.Sprintf(", %s",
			p.s.red.Sprintf("%d failed", failed),
		)
	}

	fmt.Fprintln(p.w, parts)

	if p.dryRun {
		fmt.Fprintln(p.w, p.s.dim.Sprint("manifest was not written"))
	}
}
