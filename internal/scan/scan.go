// Package scan walks configured sources, finds math spans in each document
// and records them in the manifest.
package scan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"github.com/g5becks/mathspan/internal/config"
	"github.com/g5becks/mathspan/internal/manifest"
	"github.com/g5becks/mathspan/internal/mathexpr"
	"github.com/g5becks/mathspan/internal/parser"
	"github.com/g5becks/mathspan/internal/render"
	"github.com/g5becks/mathspan/internal/source"
)

const (
	warnTooLarge    = "exceeds max_file_size; not parsed"
	warnBinary      = "binary content; not parsed"
	warnInvalidUTF8 = "invalid UTF-8"
)

type EventType int

const (
	EventSourceStart EventType = iota
	EventSourceDone
)

// Event reports progress for one source. Result and Err are set only on
// EventSourceDone. Events for different sources may arrive concurrently.
type Event struct {
	Type     EventType
	Source   string
	Location string
	Result   *SourceResult
	Err      error
}

// SourceFactory builds the Source for one configured entry.
type SourceFactory func(name string, cfg config.Source, root string) (source.Source, error)

type Options struct {
	SourceNames []string
	Force       bool
	DryRun      bool
	MaxParallel int
	OnEvent     func(Event)
	Logger      *slog.Logger

	// NewSource defaults to source.New.
	NewSource SourceFactory
}

// SourceResult summarizes one source. Parsed, Reused and Skipped count
// documents; NotModified means the remote copy was unchanged and the
// previous collection was kept as is.
type SourceResult struct {
	Name        string
	Collection  *manifest.Collection
	Parsed      int
	Reused      int
	Skipped     int
	NotModified bool
	Err         error
}

type RunResult struct {
	Manifest  *manifest.Manifest
	OutputDir string
	Sources   []SourceResult
}

// Failed returns the number of sources that ended in error.
func (r *RunResult) Failed() int {
	failed := 0
	for _, s := range r.Sources {
		if s.Err != nil {
			failed++
		}
	}
	return failed
}

// Run scans the selected sources in parallel and saves the merged manifest.
// Collections of sources that were not selected, or that failed, are
// carried over from the previous manifest. When any source fails, Run still
// returns the result alongside a SCAN_FAILED error.
func Run(ctx context.Context, cfg *config.Config, renderer *render.Renderer, opts Options) (*RunResult, error) {
	if cfg == nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			Errorf("config is required")
	}
	if renderer == nil {
		renderer = render.New(nil)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	newSource := opts.NewSource
	if newSource == nil {
		newSource = source.New
	}

	outputDir := resolveOutputRoot(cfg)
	previous, err := loadPrevious(outputDir)
	if err != nil {
		return nil, err
	}

	sourceNames, err := resolveSourceNames(cfg.Sources, opts.SourceNames)
	if err != nil {
		return nil, err
	}

	maxParallel := opts.MaxParallel
	if maxParallel <= 0 {
		maxParallel = cfg.Scan.Parallel
	}
	if maxParallel <= 0 {
		maxParallel = config.DefaultParallel
	}

	results := make(map[string]SourceResult, len(sourceNames))
	var resultsMu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallel)

	for _, sourceName := range sourceNames {
		sourceCfg := cfg.Sources[sourceName]
		prev := previous.Collections[sourceName]

		group.Go(func() error {
			s := &scanner{
				name:     sourceName,
				cfg:      sourceCfg,
				renderer: renderer,
				force:    opts.Force,
				maxSize:  cfg.Scan.MaxFileSize,
				logger:   logger.With("source", sourceName),
			}

			src, srcErr := newSource(sourceName, sourceCfg, cfg.SourceRoot(sourceCfg))
			var result SourceResult
			if srcErr != nil {
				result = SourceResult{Name: sourceName, Err: srcErr}
			} else {
				emit(opts.OnEvent, Event{Type: EventSourceStart, Source: sourceName, Location: src.Location()})
				result = s.run(groupCtx, src, prev)
			}

			emit(opts.OnEvent, Event{
				Type:   EventSourceDone,
				Source: sourceName,
				Result: &result,
				Err:    result.Err,
			})

			resultsMu.Lock()
			results[sourceName] = result
			resultsMu.Unlock()
			return nil
		})
	}

	if waitErr := group.Wait(); waitErr != nil {
		return nil, oops.Wrapf(waitErr, "waiting for scan workers")
	}

	next := manifest.New()
	for name, coll := range previous.Collections {
		if _, configured := cfg.Sources[name]; configured {
			next.Collections[name] = coll
		}
	}

	run := &RunResult{Manifest: next, OutputDir: outputDir}
	for _, sourceName := range sourceNames {
		result := results[sourceName]
		run.Sources = append(run.Sources, result)
		if result.Err == nil && result.Collection != nil {
			next.Collections[sourceName] = result.Collection
		}
	}

	if !opts.DryRun {
		if saveErr := next.Save(outputDir); saveErr != nil {
			return run, saveErr
		}
	}

	if failed := run.Failed(); failed > 0 {
		return run, oops.
			Code("SCAN_FAILED").
			With("failed_sources", failed).
			Errorf("%d source(s) failed during scan", failed)
	}

	return run, nil
}

func emit(onEvent func(Event), e Event) {
	if onEvent != nil {
		onEvent(e)
	}
}

// loadPrevious returns the saved manifest, or an empty one when none exists.
func loadPrevious(outputDir string) (*manifest.Manifest, error) {
	if _, err := os.Stat(manifest.Path(outputDir)); errors.Is(err, os.ErrNotExist) {
		return manifest.New(), nil
	}
	return manifest.Load(outputDir)
}

type scanner struct {
	name     string
	cfg      config.Source
	renderer *render.Renderer
	force    bool
	maxSize  int64
	logger   *slog.Logger
}

func (s *scanner) run(ctx context.Context, src source.Source, prev *manifest.Collection) SourceResult {
	result := SourceResult{Name: s.name}

	fetched, err := src.Fetch(ctx, prev, source.FetchOptions{Force: s.force, MaxFileSize: s.maxSize})
	if err != nil {
		result.Err = err
		return result
	}

	if fetched.NotModified && prev != nil {
		kept := *prev
		kept.Files = slices.Clone(prev.Files)
		kept.LastScan = time.Now().UTC()
		result.Collection = &kept
		result.NotModified = true
		result.Reused = len(kept.Files)
		s.logger.Debug("source not modified")
		return result
	}

	coll := &manifest.Collection{
		Name:         s.name,
		Type:         s.cfg.Type,
		Location:     src.Location(),
		LastScan:     time.Now().UTC(),
		ETag:         fetched.ETag,
		LastModified: fetched.LastModified,
		Files:        make([]manifest.FileInfo, 0, len(fetched.Documents)),
	}

	for _, doc := range fetched.Documents {
		if ctxErr := ctx.Err(); ctxErr != nil {
			result.Err = ctxErr
			return result
		}

		info, kind := s.document(doc, prev)
		switch kind {
		case outcomeParsed:
			result.Parsed++
		case outcomeReused:
			result.Reused++
		case outcomeSkipped:
			result.Skipped++
			coll.Skipped++
		}
		coll.Files = append(coll.Files, info)
	}

	coll.Recount()
	result.Collection = coll
	return result
}

type docOutcome int

const (
	outcomeParsed docOutcome = iota
	outcomeReused
	outcomeSkipped
)

func (s *scanner) document(doc source.Document, prev *manifest.Collection) (manifest.FileInfo, docOutcome) {
	info := manifest.FileInfo{
		Path:     doc.Path,
		Type:     string(parser.TypeOf(doc.Path)),
		Size:     doc.Size,
		Modified: doc.Modified,
	}

	if doc.TooLarge {
		info.Warning = warnTooLarge
		s.logger.Debug("skipped file", "path", doc.Path, "reason", info.Warning)
		return info, outcomeSkipped
	}

	sum := sha256.Sum256(doc.Content)
	info.SHA256 = hex.EncodeToString(sum[:])

	if !s.force {
		if old := prev.File(doc.Path); old != nil && old.SHA256 == info.SHA256 {
			reused := *old
			reused.Modified = doc.Modified
			s.logger.Debug("unchanged file", "path", doc.Path)
			return reused, outcomeReused
		}
	}

	if parser.IsBinary(doc.Content) {
		info.Warning = warnBinary
		s.logger.Debug("skipped file", "path", doc.Path, "reason", info.Warning)
		return info, outcomeSkipped
	}
	if !utf8.Valid(doc.Content) {
		info.Warning = warnInvalidUTF8
	}

	p := parser.ForPath(doc.Path)
	if p == nil {
		p = parser.NewTextParser()
	}

	parsed, err := p.Parse(doc.Path, doc.Content)
	if err != nil {
		info.Warning = err.Error()
		s.logger.Debug("skipped file", "path", doc.Path, "error", err)
		return info, outcomeSkipped
	}

	info.Description = parsed.Description
	info.Lines = parsed.Lines

	var unknown []string
	for _, span := range parsed.Math {
		expr := s.renderer.Expr(span.Source)
		names := mathexpr.UnknownCommands(span.Source)
		info.Math = append(info.Math, manifest.Span{
			Kind:    span.Kind,
			Source:  span.Source,
			Line:    span.Line,
			Heading: span.Heading,
			Nodes:   mathexpr.Count(expr),
			Unknown: names,
		})
		unknown = append(unknown, names...)
	}

	if len(unknown) > 0 {
		slices.Sort(unknown)
		info.Unknown = slices.Compact(unknown)
	}

	s.logger.Debug("parsed file", "path", doc.Path, "spans", len(info.Math), "unknown", len(info.Unknown))
	return info, outcomeParsed
}

func resolveSourceNames(
	sourceConfigs map[string]config.Source,
	requestedNames []string,
) ([]string, error) {
	if len(requestedNames) == 0 {
		sourceNames := make([]string, 0, len(sourceConfigs))
		for sourceName := range sourceConfigs {
			sourceNames = append(sourceNames, sourceName)
		}

		slices.Sort(sourceNames)
		return sourceNames, nil
	}

	sourceNames := make([]string, 0, len(requestedNames))
	seen := make(map[string]struct{}, len(requestedNames))

	for _, sourceName := range requestedNames {
		if _, ok := sourceConfigs[sourceName]; !ok {
			return nil, oops.
				Code("SOURCE_NOT_FOUND").
				With("source", sourceName).
				Hint("Run 'mathspan collections' to see scanned sources, or check mathspan.toml").
				Errorf("source %q not found in config", sourceName)
		}

		if _, exists := seen[sourceName]; exists {
			continue
		}

		seen[sourceName] = struct{}{}
		sourceNames = append(sourceNames, sourceName)
	}

	return sourceNames, nil
}

func resolveOutputRoot(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Output) {
		return cfg.Output
	}

	return filepath.Join(cfg.ConfigDir, cfg.Output)
}
