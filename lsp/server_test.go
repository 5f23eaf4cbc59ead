package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dvl/format"
	"dvl/schema"
)

func TestHoverText_AppendsDocsWhenPresent(t *testing.T) {
	assert.Equal(t, "Number literal", hoverText(SemanticTokenTypeNumber, ""))
	assert.Equal(t, "Number literal\nthe user's age", hoverText(SemanticTokenTypeNumber, "the user's age"))
	assert.Equal(t, "the user's age", hoverText(0, "the user's age"))
	assert.Equal(t, "", hoverText(0, ""))
}

func TestDocument_FieldDocCommentReachesTokenHover(t *testing.T) {
	validator, errs := schema.Compile("{\n  /// the user's age\n  age: number,\n}", "schema.dvl")
	require.Empty(t, errs)

	doc := NewDocument(`{"age": 30}`, format.JSON{}, validator)
	require.NotNil(t, doc.Annotated)

	offset := 2 // inside the "age" key
	tok, found := doc.Tokens.SmallestContaining(offset)
	require.True(t, found)
	assert.Equal(t, "the user's age", tok.Docs)
	assert.Equal(t, "Variable\nthe user's age", hoverText(tok.TokenType, tok.Docs))
}
