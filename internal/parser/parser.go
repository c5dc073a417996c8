package parser

import "github.com/g5becks/mathspan/internal/segment"

// Parser extracts a description and the math spans of one document.
type Parser interface {
	Parse(path string, content []byte) (*ParseResult, error)
	CanParse(path string) bool
}

type ParseResult struct {
	Description string
	Lines       int
	Math        []MathSpan
}

// MathSpan is one math segment found in a document. Line is 1-based and
// counts from the top of the file, frontmatter included. Heading is the
// nearest heading above the span, empty before the first one.
type MathSpan struct {
	Kind    segment.Kind `json:"kind"`
	Source  string       `json:"source"`
	Line    int          `json:"line"`
	Heading string       `json:"heading,omitempty"`
}

// ForPath returns the parser for path's file type, or nil when no parser
// handles it.
func ForPath(path string) Parser {
	switch TypeOf(path) {
	case FileTypeMarkdown:
		return NewMarkdownParser()
	case FileTypeMDX:
		return NewMDXParser()
	case FileTypeText:
		return NewTextParser()
	default:
		return nil
	}
}
