package parser

import (
	"bytes"
	"strings"
)

// TextParser segments plain text as a whole. There is no code to mask and
// no heading to attribute spans to.
type TextParser struct{}

func NewTextParser() *TextParser {
	return &TextParser{}
}

func (p *TextParser) CanParse(path string) bool {
	return TypeOf(path) == FileTypeText
}

func (p *TextParser) Parse(_ string, content []byte) (*ParseResult, error) {
	content = trimBOM(content)

	return &ParseResult{
		Description: firstLine(content),
		Lines:       countLines(content),
		Math:        extractMath(content, 0, nil),
	}, nil
}

func firstLine(content []byte) string {
	for rest := content; len(rest) > 0; {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		if s := strings.TrimSpace(string(line)); s != "" {
			return s
		}
	}
	return ""
}
