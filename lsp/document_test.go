package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dvl/format"
	"dvl/schema"
)

func TestDocument_UpdateText_BuildsTokensAndDiagnostics(t *testing.T) {
	validator, errs := schema.Compile(`{ name: string, age: number }`, "schema.dvl")
	require.Empty(t, errs)

	doc := NewDocument(`{"name": "a", "age": 1}`, format.JSON{}, validator)
	require.NotNil(t, doc.Annotated)
	assert.Empty(t, doc.Diagnostics)
	assert.NotEmpty(t, doc.Tokens.tokens)

	doc.UpdateText(`{"name": "a"}`)
	require.NotNil(t, doc.Annotated)
	require.Len(t, doc.Diagnostics, 1)
	assert.Contains(t, doc.Diagnostics[0].Message, "age")
}

func TestDocument_UpdateText_ParseFailureClearsAnnotated(t *testing.T) {
	validator, errs := schema.Compile(`any`, "schema.dvl")
	require.Empty(t, errs)

	doc := NewDocument(`{"a": 1}`, format.JSON{}, validator)
	require.NotNil(t, doc.Annotated)

	doc.UpdateText(`{not json`)
	assert.Nil(t, doc.Annotated)
	assert.NotEmpty(t, doc.Diagnostics)
}
