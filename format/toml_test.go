package format

import (
	"testing"

	"dvl/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOML_TopLevelPairs(t *testing.T) {
	src := []byte("name = \"bob\"\nage = 42\n")
	v, errs := TOML{}.Parse(src, "doc.toml")
	require.Empty(t, errs)
	require.Len(t, v.Object, 2)
	assert.Equal(t, "bob", v.Object[0].Value.String)
	assert.Equal(t, float64(42), v.Object[1].Value.Number)
}

func TestTOML_DottedTableHeaderNesting(t *testing.T) {
	src := []byte("[a.b.c]\nx = 1\n")
	v, errs := TOML{}.Parse(src, "doc.toml")
	require.Empty(t, errs)
	require.Len(t, v.Object, 1)
	a := v.Object[0]
	assert.Equal(t, "a", a.Key)
	require.Equal(t, value.KindObject, a.Value.Kind)

	b := a.Value.Object[0]
	assert.Equal(t, "b", b.Key)
	c := b.Value.Object[0]
	assert.Equal(t, "c", c.Key)
	require.Len(t, c.Value.Object, 1)
	assert.Equal(t, "x", c.Value.Object[0].Key)
}

func TestTOML_TableArrayElements(t *testing.T) {
	src := []byte("[[fruit]]\nname = \"apple\"\n\n[[fruit]]\nname = \"banana\"\n")
	v, errs := TOML{}.Parse(src, "doc.toml")
	require.Empty(t, errs)
	require.Len(t, v.Object, 1)
	fruit := v.Object[0]
	require.Equal(t, value.KindArray, fruit.Value.Kind)
	require.Len(t, fruit.Value.Array, 2)
	assert.Equal(t, "apple", fruit.Value.Array[0].Object[0].Value.String)
	assert.Equal(t, "banana", fruit.Value.Array[1].Object[0].Value.String)
}

func TestTOML_DottedKeyRevisitAccumulatesSpans(t *testing.T) {
	src := []byte("[a.b]\nx = 1\n[a.c]\ny = 2\n")
	v, errs := TOML{}.Parse(src, "doc.toml")
	require.Empty(t, errs)
	a := v.Object[0]
	// "a" is walked twice (once per header); its key SpanSet should
	// accumulate both fragment spans.
	assert.GreaterOrEqual(t, len(a.KeyAnnotation.All()), 2)
}

func TestTOML_DuplicateTopLevelKeyIsRejected(t *testing.T) {
	src := []byte("x = 1\nx = 2\n")
	_, errs := TOML{}.Parse(src, "doc.toml")
	require.NotEmpty(t, errs)
}
