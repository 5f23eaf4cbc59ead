package lsp

import (
	"dvl/format"
	"dvl/span"
	"dvl/validate"
	"dvl/value"
)

// Document is the per-URI state the server keeps: the last full text, a
// line index built from it, and the result of running it through its
// resolved format and schema. Parsing or validation never fails outright —
// a bad parse just leaves Annotated nil and Diagnostics holding the parse
// errors instead.
type Document struct {
	format format.Format
	schema validate.Validator

	LineIndex   LineIndex
	Annotated   *value.Value[value.FullAnnotation]
	Diagnostics []Diagnostic
	Tokens      TokenStore
}

// NewDocument builds a Document from its initial full text.
func NewDocument(text string, f format.Format, schema validate.Validator) *Document {
	d := &Document{format: f, schema: schema}
	d.UpdateText(text)
	return d
}

// UpdateText replaces the document's full text and reruns parse+validate,
// rebuilding the line index, annotated tree, diagnostics, and token store.
func (d *Document) UpdateText(text string) {
	d.LineIndex = NewLineIndex(text)

	parsed, parseErrs := d.format.Parse([]byte(text), "")
	if len(parseErrs) > 0 {
		d.Annotated = nil
		diags := make([]Diagnostic, len(parseErrs))
		for i, pe := range parseErrs {
			diags[i] = Diagnostic{
				Range:   rangeFromSpan(d.LineIndex, pe.Span),
				Message: pe.Message,
			}
		}
		d.Diagnostics = diags
		d.Tokens = TokenStore{}
		return
	}

	result, diags := d.schema.Validate(parsed)
	d.Annotated = &result
	d.Diagnostics = make([]Diagnostic, len(diags))
	for i, diag := range diags {
		d.Diagnostics[i] = Diagnostic{
			Range:   rangeFromSpan(d.LineIndex, diag.Span),
			Message: diag.Text,
		}
	}
	d.Tokens.BuildFromAnnotated(result)
}

func rangeFromSpan(idx LineIndex, sp span.Span) Range {
	return Range{
		Start: idx.OffsetToPosition(sp.Start),
		End:   idx.OffsetToPosition(sp.End),
	}
}
