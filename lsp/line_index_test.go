package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineIndex_OffsetToPosition(t *testing.T) {
	idx := NewLineIndex("abc\ndef\nghi")

	assert.Equal(t, Position{Line: 0, Character: 0}, idx.OffsetToPosition(0))
	assert.Equal(t, Position{Line: 0, Character: 3}, idx.OffsetToPosition(3))
	assert.Equal(t, Position{Line: 1, Character: 0}, idx.OffsetToPosition(4))
	assert.Equal(t, Position{Line: 2, Character: 2}, idx.OffsetToPosition(10))
}

func TestLineIndex_PositionToOffset_RoundTrips(t *testing.T) {
	text := "abc\ndef\nghi"
	idx := NewLineIndex(text)

	for offset := 0; offset <= len(text); offset++ {
		pos := idx.OffsetToPosition(offset)
		assert.Equal(t, offset, idx.PositionToOffset(pos), "offset %d", offset)
	}
}

func TestLineIndex_PositionToOffset_ClampsPastLineEnd(t *testing.T) {
	idx := NewLineIndex("ab\ncd")
	assert.Equal(t, 2, idx.PositionToOffset(Position{Line: 0, Character: 99}))
}

func TestLineIndex_SurrogatePairCountsAsTwoUnits(t *testing.T) {
	// U+1F600 (grinning face) is a single rune but two UTF-16 code units.
	idx := NewLineIndex("a\U0001F600b")
	assert.Equal(t, Position{Line: 0, Character: 3}, idx.OffsetToPosition(5))
}
