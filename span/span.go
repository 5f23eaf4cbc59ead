// Package span defines source-location primitives shared by every layer of
// dvl: the format front end stamps spans onto parsed values, the schema
// parser stamps them onto AST nodes, and the LSP surface converts them back
// to editor positions.
package span

import "fmt"

// Span is a half-open byte range [Start, End) in a named source text.
// Spans are purely descriptive: two values compare equal regardless of
// where they came from.
type Span struct {
	Filename string
	Start    int
	End      int
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.Filename, s.Start, s.End)
}

// Contains reports whether byte offset pos falls within the half-open range.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// SpanSet is an ordered, non-empty sequence of spans. The first span is the
// primary span, used whenever a single location is required (e.g. to point
// a diagnostic). TOML keys that recur across multiple table headers
// accumulate additional spans into the same SpanSet; every other construct
// holds exactly one.
type SpanSet struct {
	spans []Span
}

// NewSpanSet builds a SpanSet whose primary is the given span.
func NewSpanSet(primary Span) SpanSet {
	return SpanSet{spans: []Span{primary}}
}

// Primary returns the designated first span.
func (s SpanSet) Primary() Span {
	return s.spans[0]
}

// All returns every span in the set, primary first.
func (s SpanSet) All() []Span {
	return s.spans
}

// Append adds an additional span to the set, preserving the existing
// primary. Used when a TOML dotted key is revisited under a later table
// header.
func (s SpanSet) Append(extra Span) SpanSet {
	next := make([]Span, len(s.spans), len(s.spans)+1)
	copy(next, s.spans)
	next = append(next, extra)
	return SpanSet{spans: next}
}
