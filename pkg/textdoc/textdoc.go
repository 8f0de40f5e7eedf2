// Package textdoc maps byte offsets in a document to line/column positions
// and applies batches of non-overlapping range replacements.
package textdoc

import (
	"fmt"
	"sort"
	"strings"
)

// Position is a zero-based line and byte column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a half-open position range.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Edit replaces the bytes covered by Span with NewText.
type Edit struct {
	Span    Span
	NewText string
}

// Index answers offset/position questions for one version of a text.
type Index struct {
	lineStarts []int
	size       int
}

// NewIndex builds the line table of text.
func NewIndex(text string) *Index {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{lineStarts: starts, size: len(text)}
}

// LineCount returns the number of lines, counting a trailing empty line.
func (ix *Index) LineCount() int { return len(ix.lineStarts) }

// PositionAt converts a byte offset to a position. Offsets are clamped to
// the text bounds.
func (ix *Index) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > ix.size {
		offset = ix.size
	}
	line := sort.Search(len(ix.lineStarts), func(i int) bool {
		return ix.lineStarts[i] > offset
	}) - 1
	return Position{Line: line, Column: offset - ix.lineStarts[line]}
}

// OffsetAt converts a position back to a byte offset.
func (ix *Index) OffsetAt(p Position) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(ix.lineStarts) {
		return ix.size
	}
	off := ix.lineStarts[p.Line] + p.Column
	if off > ix.size {
		return ix.size
	}
	return off
}

// Range converts a span to a position range.
func (ix *Index) Range(s Span) Range {
	return Range{Start: ix.PositionAt(s.Start), End: ix.PositionAt(s.End)}
}

// Apply applies edits to text in one batch. Edits may be given in any order
// but must not overlap and must lie inside the text.
func Apply(text string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start < sorted[j].Span.Start
	})

	var b strings.Builder
	b.Grow(len(text))
	cursor := 0
	for i, e := range sorted {
		if e.Span.Start < cursor || e.Span.End < e.Span.Start || e.Span.End > len(text) {
			return "", fmt.Errorf("edit %d with span [%d,%d) is out of order or out of bounds", i, e.Span.Start, e.Span.End)
		}
		b.WriteString(text[cursor:e.Span.Start])
		b.WriteString(e.NewText)
		cursor = e.Span.End
	}
	b.WriteString(text[cursor:])
	return b.String(), nil
}
