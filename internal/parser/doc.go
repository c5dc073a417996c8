// Package parser finds the math spans in markdown, MDX, and plain text
// documents, with the line and section each span appears in.
package parser
