package textdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexPositions(t *testing.T) {
	text := "ab\ncde\n\nf"
	ix := NewIndex(text)

	assert.Equal(t, 4, ix.LineCount())

	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{0, 0}},
		{2, Position{0, 2}},
		{3, Position{1, 0}},
		{6, Position{1, 3}},
		{7, Position{2, 0}},
		{8, Position{3, 0}},
		{9, Position{3, 1}},
		{100, Position{3, 1}},
		{-4, Position{0, 0}},
	}
	for _, tt := range tests {
		got := ix.PositionAt(tt.offset)
		assert.Equal(t, tt.want, got, "PositionAt(%d)", tt.offset)
	}

	assert.Equal(t, 4, ix.OffsetAt(Position{1, 1}))
	assert.Equal(t, len(text), ix.OffsetAt(Position{10, 0}))
	assert.Equal(t, Range{Start: Position{1, 0}, End: Position{1, 3}}, ix.Range(Span{3, 6}))
}

func TestApply(t *testing.T) {
	text := "0123456789"

	got, err := Apply(text, []Edit{
		{Span: Span{7, 9}, NewText: "X"},
		{Span: Span{0, 1}, NewText: "start-"},
		{Span: Span{4, 4}, NewText: "|"},
	})
	require.NoError(t, err)
	assert.Equal(t, "start-123|456X9", got)

	unchanged, err := Apply(text, nil)
	require.NoError(t, err)
	assert.Equal(t, text, unchanged)
}

func TestApplyRejectsOverlap(t *testing.T) {
	_, err := Apply("0123456789", []Edit{
		{Span: Span{0, 5}, NewText: "a"},
		{Span: Span{4, 6}, NewText: "b"},
	})
	assert.Error(t, err)

	_, err = Apply("short", []Edit{{Span: Span{2, 50}, NewText: "x"}})
	assert.Error(t, err)
}

func TestSpanOverlaps(t *testing.T) {
	assert.True(t, Span{0, 5}.Overlaps(Span{4, 6}))
	assert.False(t, Span{0, 5}.Overlaps(Span{5, 6}))
	assert.Equal(t, 3, Span{2, 5}.Len())
}
