// Package validate implements dvl's validator runtime: the compiled form of
// a schema, and the pure validate(value) -> (result, diagnostics) contract
// every validator variant honors. Validators never fail; a structural
// mismatch is reported as a diagnostic while validation still produces a
// complete, possibly-incomplete-looking, annotated result tree.
package validate

import (
	"fmt"

	"dvl/span"
	"dvl/value"
)

// Diagnostic is one validation finding. Diagnostics flow out-of-band
// alongside the result; their relative order is not meaningful.
type Diagnostic struct {
	Span span.Span
	Text string
}

// Validator is the shared contract of every compiled schema node.
type Validator interface {
	Validate(v value.Value[span.SpanSet]) (value.Value[value.FullAnnotation], []Diagnostic)
}

// AnyValidator accepts anything, lifting the input unchanged.
type AnyValidator struct{}

func (AnyValidator) Validate(v value.Value[span.SpanSet]) (value.Value[value.FullAnnotation], []Diagnostic) {
	return value.ToFull(v), nil
}

// PredicateFunc inspects a value and returns a non-empty diagnostic message
// on mismatch, or "" when the value is acceptable.
type PredicateFunc func(v value.Value[span.SpanSet]) string

// PredicateValidator wraps a pure predicate function; this is how the
// default environment's string/number/integer/bool/null/any bindings are
// implemented.
type PredicateValidator struct {
	Predicate PredicateFunc
}

func (p PredicateValidator) Validate(v value.Value[span.SpanSet]) (value.Value[value.FullAnnotation], []Diagnostic) {
	var diags []Diagnostic
	if msg := p.Predicate(v); msg != "" {
		diags = append(diags, Diagnostic{Span: v.Annotation.Primary(), Text: msg})
	}
	return value.ToFull(v), diags
}

// ArrayValidator validates every element of an Array node with a single
// shared element validator. When HasMin/HasMax are set, the array's length
// is additionally checked against [Min, Max] (inclusive on both ends) —
// the compiled form of a `[lo..=hi]` index expression.
type ArrayValidator struct {
	Element Validator
	HasMin  bool
	Min     int
	HasMax  bool
	Max     int
}

func (a ArrayValidator) Validate(v value.Value[span.SpanSet]) (value.Value[value.FullAnnotation], []Diagnostic) {
	if v.Kind != value.KindArray {
		return value.ToFull(v), []Diagnostic{{Span: v.Annotation.Primary(), Text: fmt.Sprintf("Expected Array, found %s", v.Kind)}}
	}
	var diags []Diagnostic
	if a.HasMin && len(v.Array) < a.Min {
		diags = append(diags, Diagnostic{Span: v.Annotation.Primary(), Text: fmt.Sprintf("Expected at least %d element(s), found %d", a.Min, len(v.Array))})
	}
	if a.HasMax && len(v.Array) > a.Max {
		diags = append(diags, Diagnostic{Span: v.Annotation.Primary(), Text: fmt.Sprintf("Expected at most %d element(s), found %d", a.Max, len(v.Array))})
	}
	elems := make([]value.Value[value.FullAnnotation], len(v.Array))
	for i, elem := range v.Array {
		result, elemDiags := a.Element.Validate(elem)
		diags = append(diags, elemDiags...)
		elems[i] = result
	}
	return value.Value[value.FullAnnotation]{
		Kind:       value.KindArray,
		Array:      elems,
		Annotation: value.FullAnnotation{Span: v.Annotation},
	}, diags
}

// ObjectField is one named slot of an ObjectValidator.
type ObjectField struct {
	Name     string
	Optional bool
	Docs     string
	Value    Validator
}

// ObjectValidator validates an Object node against a fixed set of named
// fields. When Open is true, keys with no matching field pass through
// AnyValidator instead of being rejected.
type ObjectValidator struct {
	Fields []ObjectField
	Open   bool
}

func (o ObjectValidator) fieldByName(name string) (ObjectField, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return ObjectField{}, false
}

func (o ObjectValidator) Validate(v value.Value[span.SpanSet]) (value.Value[value.FullAnnotation], []Diagnostic) {
	if v.Kind != value.KindObject {
		return value.ToFull(v), []Diagnostic{{Span: v.Annotation.Primary(), Text: fmt.Sprintf("Expected Object, found %s", v.Kind)}}
	}

	var diags []Diagnostic
	visited := make(map[string]bool, len(v.Object))
	var fields []value.Field[value.FullAnnotation]

	for _, field := range v.Object {
		keySpan := field.KeyAnnotation.Primary()
		if visited[field.Key] {
			diags = append(diags, Diagnostic{Span: keySpan, Text: fmt.Sprintf("Duplicate key %s", field.Key)})
		}
		visited[field.Key] = true

		schemaField, ok := o.fieldByName(field.Key)
		if !ok {
			if !o.Open {
				diags = append(diags, Diagnostic{Span: keySpan, Text: fmt.Sprintf("Unexpected key %s", field.Key)})
				continue
			}
			result, childDiags := AnyValidator{}.Validate(field.Value)
			diags = append(diags, childDiags...)
			fields = append(fields, value.Field[value.FullAnnotation]{
				Key:           field.Key,
				KeyAnnotation: value.FullAnnotation{Span: field.KeyAnnotation}.WithSemanticType(value.SemanticVariable),
				Value:         result,
			})
			continue
		}

		result, childDiags := schemaField.Value.Validate(field.Value)
		diags = append(diags, childDiags...)
		keyAnn := value.FullAnnotation{Span: field.KeyAnnotation, Docs: schemaField.Docs}.WithSemanticType(value.SemanticVariable)
		fields = append(fields, value.Field[value.FullAnnotation]{
			Key:           field.Key,
			KeyAnnotation: keyAnn,
			Value:         result,
		})
	}

	for _, schemaField := range o.Fields {
		if schemaField.Optional || visited[schemaField.Name] {
			continue
		}
		diags = append(diags, Diagnostic{Span: v.Annotation.Primary(), Text: fmt.Sprintf("Missing key %s", schemaField.Name)})
	}

	return value.Value[value.FullAnnotation]{
		Kind:       value.KindObject,
		Object:     fields,
		Annotation: value.FullAnnotation{Span: v.Annotation},
	}, diags
}

// OrValidator tries every case against the same input and keeps the result
// with the fewest diagnostics, ties broken in favor of the earlier case.
// This gives unions a best-effort error message without backtracking.
type OrValidator struct {
	Cases []Validator
}

func (o OrValidator) Validate(v value.Value[span.SpanSet]) (value.Value[value.FullAnnotation], []Diagnostic) {
	var best value.Value[value.FullAnnotation]
	var bestDiags []Diagnostic
	haveBest := false

	for _, c := range o.Cases {
		result, diags := c.Validate(v)
		if !haveBest || len(diags) < len(bestDiags) {
			best, bestDiags, haveBest = result, diags, true
		}
	}
	return best, bestDiags
}
