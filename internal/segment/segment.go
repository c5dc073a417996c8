package segment

import "strings"

// Kind classifies a segment of mixed text/math input.
type Kind string

const (
	KindText       Kind = "text"
	KindInlineMath Kind = "inline_math"
	KindBlockMath  Kind = "block_math"
)

// Segment is a contiguous run of the input. For math kinds Text holds the
// math source with its delimiters stripped.
type Segment struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// IsMath reports whether k is one of the math kinds.
func (k Kind) IsMath() bool {
	return k == KindInlineMath || k == KindBlockMath
}

// IsMath reports whether the segment carries math source.
func (s Segment) IsMath() bool {
	return s.Kind.IsMath()
}

// Span is a Segment plus the byte range it covered in the input,
// delimiters included.
type Span struct {
	Segment

	Start int `json:"start"`
	End   int `json:"end"`
}

type delimiter struct {
	open  string
	close string
	kind  Kind
}

// delimiters returns the openers in match priority order.
func delimiters() []delimiter {
	return []delimiter{
		{open: "$$", close: "$$", kind: KindBlockMath},
		{open: `\[`, close: `\]`, kind: KindBlockMath},
		{open: `\(`, close: `\)`, kind: KindInlineMath},
		{open: "$", close: "$", kind: KindInlineMath},
	}
}

// Split breaks source into ordered text and math segments.
// Unmatched delimiters stay in the surrounding text.
func Split(source string) []Segment {
	spans := Scan(source)
	if len(spans) == 0 {
		return nil
	}

	segments := make([]Segment, len(spans))
	for i, span := range spans {
		segments[i] = span.Segment
	}

	return segments
}

// Scan is Split with byte offsets. Every delimiter is ASCII, so walking
// bytes never splits a multi-byte scalar: non-delimiter bytes are copied
// through as part of a text range.
func Scan(source string) []Span {
	delims := delimiters()

	var spans []Span
	textStart := 0

	for i := 0; i < len(source); {
		span, ok := matchAt(source, i, delims)
		if !ok {
			i++
			continue
		}

		if textStart < i {
			spans = append(spans, textSpan(source, textStart, i))
		}

		spans = append(spans, span)
		i = span.End
		textStart = i
	}

	if textStart < len(source) {
		spans = append(spans, textSpan(source, textStart, len(source)))
	}

	return spans
}

// ContainsMath reports whether Split would yield any math segment.
func ContainsMath(source string) bool {
	delims := delimiters()
	for i := range len(source) {
		if _, ok := matchAt(source, i, delims); ok {
			return true
		}
	}

	return false
}

func textSpan(source string, start, end int) Span {
	return Span{
		Segment: Segment{Kind: KindText, Text: source[start:end]},
		Start:   start,
		End:     end,
	}
}

func matchAt(source string, i int, delims []delimiter) (Span, bool) {
	if isEscaped(source, i) {
		return Span{}, false
	}

	rest := source[i:]
	for _, d := range delims {
		if !strings.HasPrefix(rest, d.open) {
			continue
		}

		// A lone "$" directly followed by another "$" is never inline math.
		if d.open == "$" && strings.HasPrefix(rest[1:], "$") {
			continue
		}

		contentStart := i + len(d.open)
		closeAt := findCloser(source, contentStart, d.close)
		if closeAt < 0 {
			continue
		}

		return Span{
			Segment: Segment{Kind: d.kind, Text: source[contentStart:closeAt]},
			Start:   i,
			End:     closeAt + len(d.close),
		}, true
	}

	return Span{}, false
}

func findCloser(source string, from int, closer string) int {
	for j := from; j+len(closer) <= len(source); j++ {
		if strings.HasPrefix(source[j:], closer) && !isEscaped(source, j) {
			return j
		}
	}

	return -1
}

func isEscaped(source string, i int) bool {
	return i > 0 && source[i-1] == '\\'
}
