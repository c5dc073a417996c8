package parser

import (
	"bytes"

	"github.com/g5becks/mathspan/internal/segment"
)

// extractMath segments text and reports each math span with its line number.
// lineOffset is added to every line; headings, if any, must already carry
// line numbers on the same scale.
func extractMath(text []byte, lineOffset int, headings []heading) []MathSpan {
	var spans []MathSpan

	line := 1
	last := 0
	for _, s := range segment.Scan(string(text)) {
		if !s.IsMath() {
			continue
		}

		line += bytes.Count(text[last:s.Start], []byte("\n"))
		last = s.Start

		spanLine := lineOffset + line
		spans = append(spans, MathSpan{
			Kind:    s.Kind,
			Source:  s.Text,
			Line:    spanLine,
			Heading: headingAt(headings, spanLine),
		})
	}

	return spans
}

// headingAt returns the text of the last located heading at or above line.
func headingAt(headings []heading, line int) string {
	text := ""
	for _, h := range headings {
		if h.line == 0 {
			continue
		}
		if h.line > line {
			break
		}
		text = h.text
	}
	return text
}

// maskCode returns a copy of body with fenced code blocks and inline code
// spans replaced by spaces. Newlines are kept so offsets and line numbers
// still match the original.
func maskCode(body []byte) []byte {
	out := bytes.Clone(body)
	inFenced := false

	for line := range bytes.SplitAfterSeq(out, []byte("\n")) {
		if isFenceMarker(bytes.TrimSpace(line)) {
			inFenced = !inFenced
			blank(line)
			continue
		}
		if inFenced {
			blank(line)
			continue
		}
		maskInlineCode(line)
	}

	return out
}

// maskInlineCode blanks backtick code spans that open and close on line.
func maskInlineCode(line []byte) {
	for i := 0; i < len(line); {
		if line[i] != '`' {
			i++
			continue
		}

		n := backtickRun(line, i)
		end := closingRun(line, i+n, n)
		if end < 0 {
			i += n
			continue
		}

		blank(line[i : end+n])
		i = end + n
	}
}

func backtickRun(line []byte, i int) int {
	n := 0
	for i+n < len(line) && line[i+n] == '`' {
		n++
	}
	return n
}

// closingRun finds the next run of exactly n backticks at or after from.
func closingRun(line []byte, from, n int) int {
	for i := from; i < len(line); {
		if line[i] != '`' {
			i++
			continue
		}
		run := backtickRun(line, i)
		if run == n {
			return i
		}
		i += run
	}
	return -1
}

func blank(b []byte) {
	for i, c := range b {
		if c != '\n' && c != '\r' {
			b[i] = ' '
		}
	}
}
