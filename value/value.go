// Package value implements dvl's annotated value tree: the shared
// representation that format parsers, the schema validator, and the LSP
// surface all operate on. The tree is parameterized over an annotation type
// so the same shape serves both the raw parse result (annotated with a
// span.SpanSet) and the validated result (annotated with a FullAnnotation).
package value

import "dvl/span"

// Kind discriminates the variants of the value tree.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// SemanticType classifies a node for editor syntax highlighting. It has no
// bearing on validation outcome.
type SemanticType int

const (
	SemanticNone SemanticType = iota
	SemanticString
	SemanticNumber
	SemanticVariable
)

// FullAnnotation is the annotation type attached to a tree once it has
// passed through (or been lifted for) the validator. docs is empty until a
// matching schema record's doc comment fills it in.
type FullAnnotation struct {
	Span         span.SpanSet
	Docs         string
	SemanticType SemanticType
	HasSemantic  bool
}

// WithSemanticType returns a copy of the annotation tagged with t.
func (a FullAnnotation) WithSemanticType(t SemanticType) FullAnnotation {
	a.SemanticType = t
	a.HasSemantic = true
	return a
}

// Field is one (key, value) pair of an Object node. The key carries its own
// annotation separately from the value so a key's span, docs, and semantic
// type can differ from its value's.
type Field[A any] struct {
	Key        string
	KeyAnnotation A
	Value      Value[A]
}

// Value is one node of the annotated value tree. Only the fields relevant
// to Kind are meaningful; the zero value of the others is ignored. This
// flattens the Rust original's `Annotated<AnnotatedData<A>, A>` wrapper into
// a single struct — idiomatic for Go, at the cost of Null nodes carrying an
// annotation the spec describes as absent. A Null node's Annotation is
// still populated by parsers (its span is useful for diagnostics); callers
// that need the original "no annotation" semantics should ignore it for
// Null.
type Value[A any] struct {
	Kind       Kind
	Annotation A

	Bool   bool
	Number float64
	String string
	Array  []Value[A]
	Object []Field[A]
}

// Null builds a Null node with the given annotation.
func Null[A any](annotation A) Value[A] {
	return Value[A]{Kind: KindNull, Annotation: annotation}
}

// NewBool builds a Bool node.
func NewBool[A any](b bool, annotation A) Value[A] {
	return Value[A]{Kind: KindBool, Bool: b, Annotation: annotation}
}

// NewNumber builds a Number node.
func NewNumber[A any](n float64, annotation A) Value[A] {
	return Value[A]{Kind: KindNumber, Number: n, Annotation: annotation}
}

// NewString builds a String node.
func NewString[A any](s string, annotation A) Value[A] {
	return Value[A]{Kind: KindString, String: s, Annotation: annotation}
}

// NewArray builds an Array node.
func NewArray[A any](elements []Value[A], annotation A) Value[A] {
	return Value[A]{Kind: KindArray, Array: elements, Annotation: annotation}
}

// NewObject builds an Object node preserving field order.
func NewObject[A any](fields []Field[A], annotation A) Value[A] {
	return Value[A]{Kind: KindObject, Object: fields, Annotation: annotation}
}

// Walk visits every annotated node in document order (depth-first, object
// keys before their values) and calls f with each node's annotation. Object
// key annotations are visited immediately before the corresponding value's.
// This is the primitive the LSP token-store builder walks over.
func Walk[A any](v Value[A], f func(A)) {
	f(v.Annotation)
	switch v.Kind {
	case KindArray:
		for _, elem := range v.Array {
			Walk(elem, f)
		}
	case KindObject:
		for _, field := range v.Object {
			f(field.KeyAnnotation)
			Walk(field.Value, f)
		}
	}
}

// ToFull lifts a span-annotated tree to one annotated with FullAnnotation:
// docs start empty and semantic_type is derived from the node's own kind
// (String -> String, Number -> Number, object keys -> Variable, everything
// else -> none). The validator later overwrites docs and, for object
// fields, may leave the semantic type as assigned here.
func ToFull(v Value[span.SpanSet]) Value[FullAnnotation] {
	full := FullAnnotation{Span: v.Annotation}
	switch v.Kind {
	case KindNull:
		return Value[FullAnnotation]{Kind: KindNull, Annotation: full}
	case KindBool:
		return Value[FullAnnotation]{Kind: KindBool, Bool: v.Bool, Annotation: full}
	case KindNumber:
		return Value[FullAnnotation]{Kind: KindNumber, Number: v.Number, Annotation: full.WithSemanticType(SemanticNumber)}
	case KindString:
		return Value[FullAnnotation]{Kind: KindString, String: v.String, Annotation: full.WithSemanticType(SemanticString)}
	case KindArray:
		elems := make([]Value[FullAnnotation], len(v.Array))
		for i, elem := range v.Array {
			elems[i] = ToFull(elem)
		}
		return Value[FullAnnotation]{Kind: KindArray, Array: elems, Annotation: full}
	case KindObject:
		fields := make([]Field[FullAnnotation], len(v.Object))
		for i, field := range v.Object {
			keyFull := FullAnnotation{Span: field.KeyAnnotation}.WithSemanticType(SemanticVariable)
			fields[i] = Field[FullAnnotation]{
				Key:           field.Key,
				KeyAnnotation: keyFull,
				Value:         ToFull(field.Value),
			}
		}
		return Value[FullAnnotation]{Kind: KindObject, Object: fields, Annotation: full}
	default:
		return Value[FullAnnotation]{Kind: v.Kind, Annotation: full}
	}
}

// Erase discards all annotations, producing a bare tree for consumers that
// need only the data (e.g. equality comparisons in tests).
func Erase[A any](v Value[A]) Value[struct{}] {
	switch v.Kind {
	case KindArray:
		elems := make([]Value[struct{}], len(v.Array))
		for i, elem := range v.Array {
			elems[i] = Erase(elem)
		}
		return Value[struct{}]{Kind: KindArray, Array: elems}
	case KindObject:
		fields := make([]Field[struct{}], len(v.Object))
		for i, field := range v.Object {
			fields[i] = Field[struct{}]{Key: field.Key, Value: Erase(field.Value)}
		}
		return Value[struct{}]{Kind: KindObject, Object: fields}
	default:
		return Value[struct{}]{Kind: v.Kind, Bool: v.Bool, Number: v.Number, String: v.String}
	}
}
