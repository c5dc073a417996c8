package parser

import (
	"bytes"
	"path/filepath"
	"strings"
)

// FileType names a document format by extension.
type FileType string

const (
	FileTypeMarkdown FileType = "md"
	FileTypeMDX      FileType = "mdx"
	FileTypeText     FileType = "txt"
	FileTypeUnknown  FileType = "unknown"
)

// TypeOf classifies path by its extension, ignoring case.
func TypeOf(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FileTypeMarkdown
	case ".mdx":
		return FileTypeMDX
	case ".txt", ".text":
		return FileTypeText
	default:
		return FileTypeUnknown
	}
}

const binarySniffLen = 512

// IsBinary reports a NUL byte within the first 512 bytes of content.
func IsBinary(content []byte) bool {
	head := content[:min(len(content), binarySniffLen)]
	return bytes.IndexByte(head, 0) >= 0
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func trimBOM(content []byte) []byte {
	return bytes.TrimPrefix(content, utf8BOM)
}

func countLines(content []byte) int {
	return bytes.Count(content, []byte("\n")) + 1
}
