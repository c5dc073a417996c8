package parser

// SplitFrontmatter exposes splitFrontmatter with its fields flattened.
func SplitFrontmatter(content []byte) ([]byte, string, string, int) {
	body, fm, lines := splitFrontmatter(content)
	return body, fm.title, fm.description, lines
}

// HeadingAt runs headingAt over headings built from parallel text and line
// slices.
func HeadingAt(texts []string, lines []int, line int) string {
	hs := make([]heading, len(texts))
	for i := range texts {
		hs[i] = heading{level: 1, text: texts[i], line: lines[i]}
	}
	return headingAt(hs, line)
}
