package schema

import (
	"testing"

	"dvl/span"
	"dvl/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleObject(t *testing.T) {
	ast, errs := Parse(`{ name: string, age?: number }`, "schema.dvl")
	require.Empty(t, errs)
	obj, ok := ast.(ObjectExpr)
	require.True(t, ok)
	require.Len(t, obj.Records, 2)
	assert.Equal(t, "name", obj.Records[0].Key)
	assert.False(t, obj.Records[0].Optional)
	assert.Equal(t, "age", obj.Records[1].Key)
	assert.True(t, obj.Records[1].Optional)
}

func TestParse_OpenObject(t *testing.T) {
	ast, errs := Parse(`{ id: string, .. }`, "schema.dvl")
	require.Empty(t, errs)
	obj := ast.(ObjectExpr)
	require.Len(t, obj.Records, 2)
	assert.True(t, obj.Records[1].IsAnyKey)
}

func TestParse_UnionAndArray(t *testing.T) {
	ast, errs := Parse(`string[] | number`, "schema.dvl")
	require.Empty(t, errs)
	union, ok := ast.(UnionExpr)
	require.True(t, ok)
	require.Len(t, union.Cases, 2)
	_, isArray := union.Cases[0].(ArrayExpr)
	assert.True(t, isArray)
}

func TestParse_DocComment(t *testing.T) {
	ast, errs := Parse("{ /// the name\nname: string }", "schema.dvl")
	require.Empty(t, errs)
	obj := ast.(ObjectExpr)
	assert.Equal(t, "the name", obj.Records[0].Docs)
}

func TestCompile_UnknownIdentFails(t *testing.T) {
	_, errs := Compile(`frobnicate`, "schema.dvl")
	require.NotEmpty(t, errs)
}

func TestCompile_StringValidator(t *testing.T) {
	v, errs := Compile(`string`, "schema.dvl")
	require.Empty(t, errs)

	ss := span.NewSpanSet(span.Span{Filename: "doc.json", Start: 0, End: 5})
	_, diags := v.Validate(value.NewString("hi", ss))
	assert.Empty(t, diags)

	_, diags = v.Validate(value.NewNumber(1, ss))
	assert.NotEmpty(t, diags)
}

func TestCompile_ArrayWithLengthBound(t *testing.T) {
	v, errs := Compile(`number[1..=2]`, "schema.dvl")
	require.Empty(t, errs)

	ss := span.NewSpanSet(span.Span{Filename: "doc.json", Start: 0, End: 10})
	empty := value.NewArray(nil, ss)
	_, diags := v.Validate(empty)
	assert.NotEmpty(t, diags)

	oneElem := value.NewArray([]value.Value[span.SpanSet]{value.NewNumber(1, ss)}, ss)
	_, diags = v.Validate(oneElem)
	assert.Empty(t, diags)
}
