// Package region provides the byte-offset source span attached to every
// AST and CIR node for diagnostics.
package region

import "fmt"

// Region is a (start, end) byte-offset pair into a single source file.
// It carries no line/column information; that is recomputed lazily by
// the diagnostic renderer from a LineIndex built once per file.
type Region struct {
	Start int
	End   int
}

// Zero is the empty region, used for synthesized nodes that have no
// direct source counterpart (e.g. desugared record-update targets).
var Zero = Region{}

func New(start, end int) Region {
	return Region{Start: start, End: end}
}

// Span returns a region covering both r and other.
func (r Region) Span(other Region) Region {
	start := r.Start
	if other.Start < start {
		start = other.Start
	}
	end := r.End
	if other.End > end {
		end = other.End
	}
	return Region{Start: start, End: end}
}

func (r Region) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

func (r Region) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

// LineIndex maps byte offsets to 1-based (line, column) pairs, built
// once per source file and reused by every diagnostic that needs to
// render a Region.
type LineIndex struct {
	lineStarts []int // byte offset of the start of each line
	src        []byte
}

func NewLineIndex(src []byte) *LineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{lineStarts: starts, src: src}
}

// Position converts a byte offset into a 1-based (line, column) pair.
func (li *LineIndex) Position(offset int) (line, col int) {
	// Binary search for the last line start <= offset.
	lo, hi := 0, len(li.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if li.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - li.lineStarts[lo] + 1
}

// Excerpt returns the source text of the line containing offset, along
// with the 1-based column of offset within that line.
func (li *LineIndex) Excerpt(offset int) (line string, col int) {
	_, col = li.Position(offset)
	lineNo, _ := li.Position(offset)
	start := li.lineStarts[lineNo-1]
	end := len(li.src)
	if lineNo < len(li.lineStarts) {
		end = li.lineStarts[lineNo] - 1
	}
	if end < start {
		end = start
	}
	return string(li.src[start:end]), col
}
