package lexer

import "sort"

// LineIndex maps byte offsets to 0-based line numbers.
type LineIndex struct {
	starts []int
}

func NewLineIndex(source []byte) *LineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// LineAt returns the 0-based line containing the byte offset. Offsets
// past the end of the source land on the last line.
func (ix *LineIndex) LineAt(offset int) int {
	line := sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	})
	return line - 1
}

// LineCount returns the number of lines in the source.
func (ix *LineIndex) LineCount() int { return len(ix.starts) }

// Start returns the byte offset at which the 0-based line begins.
func (ix *LineIndex) Start(line int) int {
	if line < 0 || line >= len(ix.starts) {
		return 0
	}
	return ix.starts[line]
}
