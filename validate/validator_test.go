package validate

import (
	"testing"

	"dvl/span"
	"dvl/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ss(start, end int) span.SpanSet {
	return span.NewSpanSet(span.Span{Filename: "doc.json", Start: start, End: end})
}

func TestObjectValidator_MissingRequiredKey(t *testing.T) {
	v := ObjectValidator{Fields: []ObjectField{
		{Name: "id", Value: PredicateValidator{Predicate: func(value.Value[span.SpanSet]) string { return "" }}},
	}}
	_, diags := v.Validate(value.NewObject(nil, ss(0, 2)))
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Text, "Missing key id")
}

func TestObjectValidator_OptionalKeyNotRequired(t *testing.T) {
	v := ObjectValidator{Fields: []ObjectField{
		{Name: "id", Optional: true, Value: AnyValidator{}},
	}}
	_, diags := v.Validate(value.NewObject(nil, ss(0, 2)))
	assert.Empty(t, diags)
}

func TestObjectValidator_ClosedRejectsUnexpectedKey(t *testing.T) {
	v := ObjectValidator{Open: false}
	input := value.NewObject([]value.Field[span.SpanSet]{
		{Key: "extra", KeyAnnotation: ss(2, 7), Value: value.NewBool(true, ss(9, 13))},
	}, ss(0, 14))
	_, diags := v.Validate(input)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Text, "Unexpected key extra")
}

func TestObjectValidator_OpenAllowsUnexpectedKey(t *testing.T) {
	v := ObjectValidator{Open: true}
	input := value.NewObject([]value.Field[span.SpanSet]{
		{Key: "extra", KeyAnnotation: ss(2, 7), Value: value.NewBool(true, ss(9, 13))},
	}, ss(0, 14))
	result, diags := v.Validate(input)
	assert.Empty(t, diags)
	require.Len(t, result.Object, 1)
}

func TestObjectValidator_DuplicateKey(t *testing.T) {
	v := ObjectValidator{Open: true}
	input := value.NewObject([]value.Field[span.SpanSet]{
		{Key: "a", KeyAnnotation: ss(0, 1), Value: value.NewBool(true, ss(2, 3))},
		{Key: "a", KeyAnnotation: ss(4, 5), Value: value.NewBool(false, ss(6, 7))},
	}, ss(0, 8))
	_, diags := v.Validate(input)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Text, "Duplicate key a")
}

func TestOrValidator_PicksFewestDiagnostics(t *testing.T) {
	alwaysFails := PredicateValidator{Predicate: func(value.Value[span.SpanSet]) string { return "nope" }}
	v := OrValidator{Cases: []Validator{alwaysFails, AnyValidator{}}}
	_, diags := v.Validate(value.NewBool(true, ss(0, 4)))
	assert.Empty(t, diags)
}

func TestOrValidator_TieBreaksToEarlierBranch(t *testing.T) {
	first := PredicateValidator{Predicate: func(value.Value[span.SpanSet]) string { return "first" }}
	second := PredicateValidator{Predicate: func(value.Value[span.SpanSet]) string { return "second" }}
	v := OrValidator{Cases: []Validator{first, second}}
	_, diags := v.Validate(value.NewBool(true, ss(0, 4)))
	require.Len(t, diags, 1)
	assert.Equal(t, "first", diags[0].Text)
}

func TestArrayValidator_WrongKind(t *testing.T) {
	v := ArrayValidator{Element: AnyValidator{}}
	_, diags := v.Validate(value.NewNumber(3, ss(0, 1)))
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Text, "Expected Array")
}
