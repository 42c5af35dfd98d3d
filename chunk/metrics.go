package chunk

// Metrics measure a Summary along one dimension and cut a ChunkSlice after a
// number of units of that dimension. A unit ends with the byte that completes
// it: a byte, a rune, or a line including its LF. Text after the last
// completed unit belongs to a trailing partial unit.
//
// All metrics satisfy btree.Metric[ChunkSlice, Summary].

// ByteMetric counts bytes.
type ByteMetric struct{}

// Measure returns the number of bytes.
func (ByteMetric) Measure(s Summary) uint64 { return s.Bytes }

// SplitLeft cuts leaf after units bytes. The cut must be a char boundary.
func (ByteMetric) SplitLeft(leaf ChunkSlice, summary Summary, units uint64) (ChunkSlice, Summary, ChunkSlice, bool) {
	assert(units <= summary.Bytes, "chunk: byte metric split beyond leaf")
	return splitLeftAt(leaf, summary, int(units))
}

// LineMetric counts line breaks. One unit is a line including its
// terminating LF.
type LineMetric struct{}

// Measure returns the number of line breaks.
func (LineMetric) Measure(s Summary) uint64 { return s.Lines }

// SplitLeft cuts leaf just after its units-th line break.
func (LineMetric) SplitLeft(leaf ChunkSlice, summary Summary, units uint64) (ChunkSlice, Summary, ChunkSlice, bool) {
	assert(units <= summary.Lines, "chunk: line metric split beyond leaf")
	return splitLeftAt(leaf, summary, leaf.ByteOfLine(int(units)))
}

// CharMetric counts Unicode scalar values.
type CharMetric struct{}

// Measure returns the number of characters.
func (CharMetric) Measure(s Summary) uint64 { return s.Chars }

// SplitLeft cuts leaf after units characters.
func (CharMetric) SplitLeft(leaf ChunkSlice, summary Summary, units uint64) (ChunkSlice, Summary, ChunkSlice, bool) {
	assert(units <= summary.Chars, "chunk: char metric split beyond leaf")
	return splitLeftAt(leaf, summary, leaf.ByteOfChar(int(units)))
}

func splitLeftAt(leaf ChunkSlice, summary Summary, offset int) (ChunkSlice, Summary, ChunkSlice, bool) {
	if offset >= leaf.Len() {
		return leaf, summary, ChunkSlice{}, false
	}
	left, right := leaf.SplitAt(offset)
	return left, summary.Sub(right.Summary()), right, true
}
