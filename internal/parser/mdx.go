package parser

import (
	"bytes"
	"regexp"
)

var (
	importLineRegex = regexp.MustCompile(`^\s*import\s+`)
	exportMetaRegex = regexp.MustCompile(`^\s*export\s+(const|let|var)\s+\w+\s*=`)
)

type MDXParser struct {
	md *MarkdownParser
}

func NewMDXParser() *MDXParser {
	return &MDXParser{md: NewMarkdownParser()}
}

func (p *MDXParser) CanParse(path string) bool {
	return TypeOf(path) == FileTypeMDX
}

// Parse blanks MDX import and export statements, then parses the rest as
// markdown. Blanking keeps heading and math line numbers aligned with the
// original file.
func (p *MDXParser) Parse(path string, content []byte) (*ParseResult, error) {
	return p.md.Parse(path, blankMDXSyntax(trimBOM(content)))
}

// blankMDXSyntax blanks import and export lines. A statement that opens
// more braces than it closes continues until they balance.
func blankMDXSyntax(content []byte) []byte {
	out := bytes.Clone(content)
	depth := 0

	for line := range bytes.SplitAfterSeq(out, []byte("\n")) {
		if depth == 0 && !importLineRegex.Match(line) && !exportMetaRegex.Match(line) {
			continue
		}
		depth = max(depth+bytes.Count(line, []byte("{"))-bytes.Count(line, []byte("}")), 0)
		blank(line)
	}

	return out
}
