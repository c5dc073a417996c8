package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/oops"

	"github.com/g5becks/mathspan/internal/config"
	"github.com/g5becks/mathspan/internal/manifest"
)

type dirSource struct {
	name   string
	source config.Source
	root   string
}

func NewDir(name string, cfg config.Source, root string) Source {
	return &dirSource{name: name, source: cfg, root: root}
}

func (s *dirSource) Location() string {
	return s.root
}

// Fetch reads every file under the root that matches the source patterns
// and none of its excludes. A root that names a single file yields just
// that file.
func (s *dirSource) Fetch(ctx context.Context, _ *manifest.Collection, opts FetchOptions) (*FetchResult, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oops.
				Code("SOURCE_NOT_FOUND").
				With("source", s.name).
				With("path", s.root).
				Hint("Check the source path; relative paths resolve against the config file").
				Errorf("source directory %q does not exist", s.root)
		}
		return nil, oops.
			Code("READ_FAILED").
			With("source", s.name).
			With("path", s.root).
			Wrapf(err, "checking source path")
	}

	if !info.IsDir() {
		doc, readErr := s.read(s.root, filepath.Base(s.root), info, opts.MaxFileSize)
		if readErr != nil {
			return nil, readErr
		}
		return &FetchResult{Documents: []Document{*doc}}, nil
	}

	var docs []Document
	walkErr := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil || rel == "." {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			excluded, matchErr := matchesAny(s.source.Exclude, rel)
			if matchErr != nil {
				return matchErr
			}
			if excluded {
				return filepath.SkipDir
			}
			return nil
		}

		include, matchErr := shouldIncludeFile(rel, s.source.Patterns, s.source.Exclude)
		if matchErr != nil || !include {
			return matchErr
		}

		fileInfo, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}

		doc, readErr := s.read(path, rel, fileInfo, opts.MaxFileSize)
		if readErr != nil {
			return readErr
		}
		docs = append(docs, *doc)
		return nil
	})

	if walkErr != nil {
		if _, isOops := oops.AsOops(walkErr); isOops {
			return nil, walkErr
		}
		return nil, oops.
			Code("READ_FAILED").
			With("source", s.name).
			With("path", s.root).
			Wrapf(walkErr, "walking source directory")
	}

	slices.SortFunc(docs, func(a, b Document) int {
		return strings.Compare(a.Path, b.Path)
	})

	return &FetchResult{Documents: docs}, nil
}

func (s *dirSource) read(path, rel string, info fs.FileInfo, maxSize int64) (*Document, error) {
	doc := &Document{
		Path:     rel,
		Size:     info.Size(),
		Modified: info.ModTime().UTC(),
	}

	if maxSize > 0 && info.Size() > maxSize {
		doc.TooLarge = true
		return doc, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.
			Code("READ_FAILED").
			With("source", s.name).
			With("path", path).
			Wrapf(err, "reading file")
	}

	doc.Content = content
	return doc, nil
}

func shouldIncludeFile(relativePath string, patterns []string, exclude []string) (bool, error) {
	included, err := matchesAny(patterns, relativePath)
	if err != nil || !included {
		return false, err
	}

	excluded, err := matchesAny(exclude, relativePath)
	if err != nil {
		return false, err
	}

	return !excluded, nil
}

func matchesAny(patterns []string, candidate string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, candidate)
		if err != nil {
			return false, oops.
				Code("CONFIG_INVALID").
				With("pattern", pattern).
				With("path", candidate).
				Wrapf(err, "invalid glob pattern")
		}

		if matched {
			return true, nil
		}
	}

	return false, nil
}
