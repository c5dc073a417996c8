package parser

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/gomarkdown/markdown/ast"
	mdparser "github.com/gomarkdown/markdown/parser"
)

// MarkdownParser reports the math in a markdown document. Code is masked
// before segmentation and every span is attributed to the nearest heading
// above it.
type MarkdownParser struct{}

func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

func (p *MarkdownParser) CanParse(path string) bool {
	return TypeOf(path) == FileTypeMarkdown
}

func (p *MarkdownParser) Parse(_ string, content []byte) (*ParseResult, error) {
	content = trimBOM(content)
	body, fm, offset := splitFrontmatter(content)

	doc := mdparser.NewWithExtensions(mdparser.CommonExtensions).Parse(body)
	sum := summarize(doc)
	locateHeadings(sum.headings, body, offset)

	description := fm.summary()
	if description == "" {
		description = sum.description()
	}

	return &ParseResult{
		Description: description,
		Lines:       countLines(content),
		Math:        extractMath(maskCode(body), offset, sum.headings),
	}, nil
}

// heading is a section title and its 1-based line in the file. line stays
// zero when the title cannot be found in the source.
type heading struct {
	level int
	text  string
	line  int
}

// docSummary is what one walk of the markdown AST collects.
type docSummary struct {
	headings []heading
	title    string // first level-1 heading
	lead     string // first paragraph
	// leadAfterTitle is set when the first paragraph follows the title.
	leadAfterTitle bool
}

func summarize(doc ast.Node) docSummary {
	var s docSummary

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		switch n := node.(type) {
		case *ast.Heading:
			text := plainText(n)
			if text == "" {
				return ast.SkipChildren
			}
			s.headings = append(s.headings, heading{level: n.Level, text: text})
			if n.Level == 1 && s.title == "" {
				s.title = text
			}
			return ast.SkipChildren

		case *ast.Paragraph:
			if s.lead == "" {
				s.lead = plainText(n)
				s.leadAfterTitle = s.title != ""
			}
			return ast.SkipChildren
		}

		return ast.GoToNext
	})

	return s
}

func (s docSummary) description() string {
	switch {
	case s.title != "" && s.leadAfterTitle:
		return s.title + " - " + s.lead
	case s.title != "":
		return s.title
	default:
		return s.lead
	}
}

// plainText flattens node to its visible text. Inline math keeps its
// dollar delimiters.
func plainText(node ast.Node) string {
	var b strings.Builder

	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch leaf := n.(type) {
		case *ast.Text, *ast.Code:
			b.Write(leaf.AsLeaf().Literal)
		case *ast.Math:
			b.WriteByte('$')
			b.Write(leaf.Literal)
			b.WriteByte('$')
		}
		return ast.GoToNext
	})

	return strings.Join(strings.Fields(b.String()), " ")
}

// locateHeadings sets each heading's line by matching ATX and setext
// headings in body against the AST headings, in order, by level and text.
// The AST carries no source positions. A heading with no source match
// (inside a blockquote, say) keeps line 0 and does not stall the rest.
func locateHeadings(headings []heading, body []byte, offset int) {
	lines := bytes.Split(body, []byte("\n"))
	next := 0
	fenced := false

	for i := 0; i < len(lines) && next < len(headings); i++ {
		if isFenceMarker(bytes.TrimSpace(lines[i])) {
			fenced = !fenced
			continue
		}
		if fenced {
			continue
		}

		level, raw := sourceHeading(lines, i)
		if level == 0 {
			continue
		}

		key := foldText(string(raw))
		for j := next; j < len(headings); j++ {
			if headings[j].level == level && strings.Contains(key, foldText(headings[j].text)) {
				headings[j].line = offset + i + 1
				next = j + 1
				break
			}
		}
	}
}

// sourceHeading returns the level and raw text of the heading that starts
// on lines[i], or level 0.
func sourceHeading(lines [][]byte, i int) (int, []byte) {
	if level, text := atxHeading(lines[i]); level > 0 {
		return level, text
	}

	text := bytes.TrimSpace(lines[i])
	if len(text) == 0 || i+1 >= len(lines) {
		return 0, nil
	}

	underline := bytes.TrimSpace(lines[i+1])
	switch {
	case isRunOf(underline, '='):
		return 1, text
	case isRunOf(underline, '-'):
		return 2, text
	default:
		return 0, nil
	}
}

func atxHeading(line []byte) (int, []byte) {
	rest := bytes.TrimLeft(line, " ")
	if len(line)-len(rest) > 3 {
		return 0, nil
	}

	level := len(rest) - len(bytes.TrimLeft(rest, "#"))
	if level < 1 || level > 6 || level == len(rest) {
		return 0, nil
	}
	if c := rest[level]; c != ' ' && c != '\t' {
		return 0, nil
	}

	return level, bytes.Trim(rest[level:], " \t\r#")
}

func isRunOf(b []byte, c byte) bool {
	return len(b) > 0 && len(bytes.Trim(b, string(c))) == 0
}

func isFenceMarker(trimmed []byte) bool {
	return bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~"))
}

// foldText keeps letters and digits, lowercased, so inline markup in the
// source does not defeat a match against rendered heading text.
func foldText(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}
