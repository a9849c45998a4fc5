package textindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Offsets(t *testing.T) {
	// Three lines, \n terminators: offsets are line starts plus column.
	src := []byte("def f():\n    pass\nx = 1\n")
	idx := New(src)

	assert.Equal(t, len(src), idx.Len())
	assert.Equal(t, 3, idx.Lines())

	assert.Equal(t, 0, idx.Offset(1, 0))
	assert.Equal(t, 4, idx.Offset(1, 4))
	assert.Equal(t, 9, idx.Offset(2, 0))
	assert.Equal(t, 17, idx.Offset(2, 8))
	assert.Equal(t, 18, idx.Offset(3, 0))
}

func TestIndex_MixedTerminators(t *testing.T) {
	// \r\n counts two bytes toward its line; bare \r is a line break too.
	src := []byte("a\r\nbb\rccc\n")
	idx := New(src)

	require.Equal(t, 3, idx.Lines())
	assert.Equal(t, 0, idx.Offset(1, 0))
	assert.Equal(t, 3, idx.Offset(2, 0))
	assert.Equal(t, 6, idx.Offset(3, 0))
	assert.Equal(t, 9, idx.Offset(3, 3))
}

func TestIndex_Clamping(t *testing.T) {
	src := []byte("one\ntwo\n")
	idx := New(src)

	// Non-positive lines clamp to the start of the text.
	assert.Equal(t, 0, idx.Offset(0, 5))
	assert.Equal(t, 0, idx.Offset(-3, 2))

	// Lines past the table clamp to end-of-text, never out of bounds.
	assert.Equal(t, len(src), idx.Offset(3, 0))
	assert.Equal(t, len(src), idx.Offset(1000, 17))

	// Negative columns are treated as column zero.
	assert.Equal(t, 4, idx.Offset(2, -1))
}

func TestIndex_Empty(t *testing.T) {
	idx := New(nil)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.Lines())
	assert.Equal(t, 0, idx.Offset(1, 0))
	assert.Equal(t, 0, idx.Offset(5, 3))
}

func TestIndex_NoTrailingNewline(t *testing.T) {
	src := []byte("def f():\n    pass")
	idx := New(src)

	require.Equal(t, 2, idx.Lines())
	assert.Equal(t, 9, idx.Offset(2, 0))
	assert.Equal(t, 17, idx.Offset(2, 8))
	assert.Equal(t, 17, idx.Offset(3, 0))
}

func TestIndex_Monotonic(t *testing.T) {
	// Offsets are non-decreasing as (line, col) increases lexicographically
	// over positions that exist in the text.
	src := []byte("import os\n\nclass C:\n    pass\n# tail\n")
	idx := New(src)

	lineLens := []int{10, 1, 9, 9, 7}
	prev := -1
	for line := 1; line <= len(lineLens); line++ {
		for col := 0; col < lineLens[line-1]; col++ {
			off := idx.Offset(line, col)
			require.GreaterOrEqual(t, off, prev, "line %d col %d", line, col)
			prev = off
		}
	}
	// Positions past the last line land on end-of-text, still non-decreasing.
	require.GreaterOrEqual(t, idx.Offset(len(lineLens)+1, 0), prev)
}
