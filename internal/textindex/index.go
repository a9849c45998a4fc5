// Package textindex maps backend-reported line/column positions to absolute
// byte offsets over the original source text. Built once per request and
// discarded with it.
package textindex

// Index is a read-only line table over one source text.
type Index struct {
	starts []int // byte offset of the start of each physical line
	total  int   // total length of the source in bytes
}

// New builds the line table for src. Line terminators (\n, \r\n, bare \r)
// count toward the line they end, so offsets stay exact with mixed
// terminators.
func New(src []byte) *Index {
	idx := &Index{total: len(src)}
	if len(src) == 0 {
		return idx
	}
	idx.starts = append(idx.starts, 0)
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n':
			if i+1 < len(src) {
				idx.starts = append(idx.starts, i+1)
			}
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			if i+1 < len(src) {
				idx.starts = append(idx.starts, i+1)
			}
		}
	}
	return idx
}

// Offset resolves a 1-based line and 0-based column to an absolute byte
// offset. The clamping policy is deliberate: a non-positive line maps to 0,
// a line past the table maps to the total length (a symbol may legitimately
// end at end-of-file), and a negative column is treated as 0.
func (x *Index) Offset(line, col int) int {
	if line <= 0 {
		return 0
	}
	index := line - 1
	if index >= len(x.starts) {
		return x.total
	}
	if col < 0 {
		col = 0
	}
	return x.starts[index] + col
}

// Len returns the total length of the indexed source in bytes.
func (x *Index) Len() int {
	return x.total
}

// Lines returns the number of physical lines recorded.
func (x *Index) Lines() int {
	return len(x.starts)
}
