package parser

import (
	"bytes"
	"strings"
)

// frontmatter holds the keys of a leading "---" block that describe a
// document. Other keys are ignored.
type frontmatter struct {
	title       string
	description string
}

// summary joins title and description, whichever are set.
func (fm frontmatter) summary() string {
	switch {
	case fm.title != "" && fm.description != "":
		return fm.title + " - " + fm.description
	case fm.title != "":
		return fm.title
	default:
		return fm.description
	}
}

func (fm *frontmatter) set(line []byte) {
	key, value, ok := bytes.Cut(line, []byte(":"))
	if !ok {
		return
	}

	v := strings.Trim(strings.TrimSpace(string(value)), `"'`)
	switch strings.TrimSpace(string(key)) {
	case "title":
		fm.title = v
	case "description":
		fm.description = v
	}
}

// splitFrontmatter separates a leading frontmatter block from the body.
// lines is how many lines the block spans, so positions found in body can
// be reported against the whole file. An unterminated block is not
// frontmatter.
func splitFrontmatter(content []byte) (body []byte, fm frontmatter, lines int) {
	first, rest, ok := bytes.Cut(content, []byte("\n"))
	if !ok || !isFrontmatterFence(first) {
		return content, frontmatter{}, 0
	}

	lines = 1
	for len(rest) > 0 {
		line, next, _ := bytes.Cut(rest, []byte("\n"))
		lines++
		if isFrontmatterFence(line) {
			return next, fm, lines
		}
		fm.set(line)
		rest = next
	}

	return content, frontmatter{}, 0
}

func isFrontmatterFence(line []byte) bool {
	return bytes.Equal(bytes.TrimSuffix(line, []byte("\r")), []byte("---"))
}
