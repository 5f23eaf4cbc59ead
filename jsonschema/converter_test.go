package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_SimpleObject(t *testing.T) {
	src := `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "description": "the name"},
			"age": {"type": "integer"}
		},
		"required": ["name"]
	}`
	out, err := Convert([]byte(src))
	require.NoError(t, err)
	assert.Contains(t, out, "/// the name")
	assert.Contains(t, out, "name: string")
	assert.Contains(t, out, "age?: integer")
	assert.Contains(t, out, "..")
}

func TestConvert_ObjectAdditionalPropertiesFalse(t *testing.T) {
	src := `{"type": "object", "properties": {"x": {"type": "number"}}, "required": ["x"], "additionalProperties": false}`
	out, err := Convert([]byte(src))
	require.NoError(t, err)
	assert.NotContains(t, out, "..")
}

func TestConvert_ArrayWithBounds(t *testing.T) {
	src := `{"type": "array", "items": {"type": "string"}, "minItems": 1, "maxItems": 3}`
	out, err := Convert([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "string[1..=3]", out)
}

func TestConvert_MultiTypeUnion(t *testing.T) {
	src := `{"type": ["string", "null"]}`
	out, err := Convert([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "string | null", out)
}

func TestConvert_SingleElementTypeListSimplifies(t *testing.T) {
	src := `{"type": ["boolean"]}`
	out, err := Convert([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "bool", out)
}
