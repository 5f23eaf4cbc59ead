// Package format implements dvl's format front end: parsers that turn JSON
// and TOML source text into the annotated value tree defined by package
// value. Both implementations are thin wrappers over a tree-sitter concrete
// syntax tree; they never hand-roll lexing or recursive-descent parsing
// themselves.
package format

import (
	"dvl/span"
	"dvl/value"
)

// ParseError is one diagnostic produced while parsing source text. Unlike
// validator diagnostics, a ParseError means no usable tree exists for the
// span it names; a parse call returns ParseErrors xor a value, never both.
type ParseError struct {
	Message string
	Span    span.Span
}

// Format parses a source document into dvl's annotated value tree. Parse
// results are annotated with span.SpanSet; downstream, the validator lifts
// them to value.FullAnnotation.
type Format interface {
	Parse(source []byte, filename string) (value.Value[span.SpanSet], []ParseError)
}

// ByExtension returns the Format registered for a lowercase file extension
// (including the leading dot), or nil if none matches.
func ByExtension(ext string) Format {
	switch ext {
	case ".json":
		return JSON{}
	case ".toml":
		return TOML{}
	default:
		return nil
	}
}
