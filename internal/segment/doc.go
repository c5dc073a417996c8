// Package segment splits mixed prose into plain text and math spans.
//
// Recognized delimiters, in priority order: $$...$$ and \[...\] (block),
// \(...\) and $...$ (inline). An opener preceded by a backslash is escaped.
// Nested or overlapping delimiters are not supported: a span's content runs
// verbatim to the first unescaped closer of the same kind.
package segment
