package source

import (
	"context"
	"time"

	"github.com/samber/oops"

	"github.com/g5becks/mathspan/internal/config"
	"github.com/g5becks/mathspan/internal/manifest"
)

// Document is one fetched file. Path is slash-separated and relative to the
// source root. Content is nil when TooLarge is set.
type Document struct {
	Path     string
	Content  []byte
	Size     int64
	Modified time.Time
	TooLarge bool
}

// FetchOptions controls behavior for source fetch operations.
type FetchOptions struct {
	Force       bool
	MaxFileSize int64
}

// FetchResult reports what a source returned. When NotModified is set the
// previous collection is still current and Documents is empty.
type FetchResult struct {
	Documents    []Document
	NotModified  bool
	ETag         string
	LastModified string
}

// Source is a place documents are read from.
type Source interface {
	Fetch(ctx context.Context, prev *manifest.Collection, opts FetchOptions) (*FetchResult, error)

	// Location is the directory or URL shown in reports.
	Location() string
}

// New creates a Source from config. root is the resolved directory for dir
// sources and is ignored otherwise.
func New(name string, cfg config.Source, root string) (Source, error) {
	switch cfg.Type {
	case config.SourceTypeDir:
		return NewDir(name, cfg, root), nil
	case config.SourceTypeURL:
		return NewURL(name, cfg), nil
	default:
		return nil, oops.
			Code("UNKNOWN_SOURCE_TYPE").
			With("type", cfg.Type).
			Hint("Supported types: dir, url").
			Errorf("unknown source type %q for source %q", cfg.Type, name)
	}
}
