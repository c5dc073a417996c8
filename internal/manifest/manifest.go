package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/samber/oops"

	"github.com/g5becks/mathspan/internal/segment"
)

const (
	CurrentVersion = "1.0.0"
	ManifestFile   = "manifest.json"
)

// Manifest is the persisted scan report. It also carries the freshness
// state (content hashes and HTTP validators) used to skip unchanged input
// on the next scan.
type Manifest struct {
	Version     string                 `json:"version"`
	Generated   time.Time              `json:"generated"`
	Collections map[string]*Collection `json:"collections"`
}

type Collection struct {
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Location     string     `json:"location"`
	LastScan     time.Time  `json:"last_scan"`
	ETag         string     `json:"etag,omitempty"`
	LastModified string     `json:"last_modified,omitempty"`
	FileCount    int        `json:"file_count"`
	SpanCount    int        `json:"span_count"`
	UnknownCount int        `json:"unknown_count"`
	TotalSize    int64      `json:"total_size"`
	Skipped      int        `json:"skipped,omitempty"`
	Files        []FileInfo `json:"files"`
}

type FileInfo struct {
	Path        string    `json:"path"`
	Type        string    `json:"type"`
	Size        int64     `json:"size"`
	Lines       int       `json:"lines"`
	Modified    time.Time `json:"modified"`
	SHA256      string    `json:"sha256,omitempty"`
	Description string    `json:"description"`
	Warning     string    `json:"warning,omitempty"`
	Math        []Span    `json:"math,omitempty"`
	Unknown     []string  `json:"unknown,omitempty"`
}

// Span is one math span found in a file, with the size of its parsed tree
// and any commands that rendered as literal names.
type Span struct {
	Kind    segment.Kind `json:"kind"`
	Source  string       `json:"source"`
	Line    int          `json:"line"`
	Heading string       `json:"heading,omitempty"`
	Nodes   int          `json:"nodes"`
	Unknown []string     `json:"unknown,omitempty"`
}

func New() *Manifest {
	return &Manifest{
		Version:     CurrentVersion,
		Generated:   time.Now(),
		Collections: make(map[string]*Collection),
	}
}

func Load(outputDir string) (*Manifest, error) {
	manifestPath := Path(outputDir)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oops.
				Code("MANIFEST_NOT_FOUND").
				With("path", manifestPath).
				Hint("Run 'mathspan scan' to generate the manifest").
				Errorf("manifest not found at %q", manifestPath)
		}

		return nil, oops.
			Code("MANIFEST_READ_ERROR").
			With("path", manifestPath).
			Wrapf(err, "reading manifest file")
	}

	m := &Manifest{}
	if unmarshalErr := json.Unmarshal(data, m); unmarshalErr != nil {
		return nil, oops.
			Code("MANIFEST_CORRUPTED").
			With("path", manifestPath).
			Hint("Delete the manifest and run 'mathspan scan --force'").
			Wrapf(unmarshalErr, "parsing manifest file")
	}

	if m.Collections == nil {
		m.Collections = make(map[string]*Collection)
	}

	return m, nil
}

func (m *Manifest) Save(outputDir string) error {
	if m == nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			Hint("Initialize manifest before saving").
			Errorf("cannot save nil manifest")
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			With("path", outputDir).
			Wrapf(err, "creating manifest directory")
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			Wrapf(err, "encoding manifest")
	}

	data = append(data, '\n')
	manifestPath := Path(outputDir)

	tempFile, err := os.CreateTemp(outputDir, ManifestFile+".*.tmp")
	if err != nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			With("path", outputDir).
			Wrapf(err, "creating temporary manifest file")
	}

	tempPath := tempFile.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, writeErr := tempFile.Write(data); writeErr != nil {
		_ = tempFile.Close()
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			With("path", tempPath).
			Wrapf(writeErr, "writing temporary manifest file")
	}

	if closeErr := tempFile.Close(); closeErr != nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			With("path", tempPath).
			Wrapf(closeErr, "closing temporary manifest file")
	}

	if renameErr := os.Rename(tempPath, manifestPath); renameErr != nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			With("from", tempPath).
			With("to", manifestPath).
			Wrapf(renameErr, "replacing manifest file")
	}

	return nil
}

func Path(outputDir string) string {
	return filepath.Join(outputDir, ManifestFile)
}

// File returns the entry for path, or nil.
func (c *Collection) File(path string) *FileInfo {
	if c == nil {
		return nil
	}
	for i := range c.Files {
		if c.Files[i].Path == path {
			return &c.Files[i]
		}
	}
	return nil
}

// Recount refreshes the aggregate counters from Files.
func (c *Collection) Recount() {
	c.FileCount = len(c.Files)
	c.SpanCount = 0
	c.UnknownCount = 0
	c.TotalSize = 0
	for _, f := range c.Files {
		c.SpanCount += len(f.Math)
		c.UnknownCount += len(f.Unknown)
		c.TotalSize += f.Size
	}
}

// Names returns the collection names in sorted order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Collections))
	for name := range m.Collections {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
