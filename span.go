package gaprope

import (
	"iter"
	"strings"

	"github.com/npillmayer/gaprope/btree"
	"github.com/npillmayer/gaprope/chunk"
)

type ropeSlice = btree.TreeSlice[chunk.ChunkSlice, chunk.Summary]

// Span is a read-only view of a range of a rope. It shares the text of the
// rope and stays valid independently of later edits.
type Span struct {
	slice ropeSlice
}

// Summary returns aggregate byte/char/line counts for the span.
func (s Span) Summary() chunk.Summary {
	return s.slice.Summary()
}

// Len returns the span length in bytes.
func (s Span) Len() uint64 {
	return s.slice.Summary().Bytes
}

// IsEmpty reports whether the span has no bytes.
func (s Span) IsEmpty() bool {
	return s.Len() == 0
}

// Kind tells whether the span lies within a single leaf or spans several.
func (s Span) Kind() btree.SliceKind {
	return s.slice.Kind()
}

// String returns the text of the span.
func (s Span) String() string {
	var sb strings.Builder
	sb.Grow(int(s.Len()))
	for leaf := range s.Chunks() {
		sb.Write(leaf.FirstSegment())
		sb.Write(leaf.SecondSegment())
	}
	return sb.String()
}

// Chunks returns an iterator over the chunks of the span in order.
func (s Span) Chunks() iter.Seq[chunk.ChunkSlice] {
	return s.slice.Leaves().All()
}

// Slice returns the span of bytes [start,end) of the rope.
func (r Rope) Slice(start, end uint64) (Span, error) {
	if start > end || end > r.Len() {
		return Span{}, ErrIndexOutOfBounds
	}
	if !r.isCharBoundary(start) || !r.isCharBoundary(end) {
		return Span{}, ErrNotCharBoundary
	}
	return r.slice(chunk.ByteMetric{}, start, end), nil
}

func (r Rope) slice(m btree.Metric[chunk.ChunkSlice, chunk.Summary], start, end uint64) Span {
	if r.tree == nil {
		return Span{}
	}
	s, err := r.tree.Slice(m, start, end)
	assert(err == nil, "rope slice: range checked but rejected")
	return Span{slice: s}
}

// Line returns line i (zero-based) including its terminating newline.
// The text after the last newline counts as line LineCount(), which may be
// empty.
func (r Rope) Line(i uint64) (Span, error) {
	lines := r.LineCount()
	switch {
	case i < lines:
		return r.slice(chunk.LineMetric{}, i, i+1), nil
	case i == lines:
		start := r.slice(chunk.LineMetric{}, 0, lines).Len()
		return r.slice(chunk.ByteMetric{}, start, r.Len()), nil
	}
	return Span{}, ErrIndexOutOfBounds
}

// Lines returns an iterator over the lines of the rope, each including its
// terminating newline. Text after the last newline is yielded as a final
// line; a rope ending in a newline has no empty last line.
func (r Rope) Lines() iter.Seq[Span] {
	return r.units(chunk.LineMetric{}, false)
}

// LinesBackward iterates the lines of the rope from last to first.
func (r Rope) LinesBackward() iter.Seq[Span] {
	return r.units(chunk.LineMetric{}, true)
}

// Chars returns an iterator over the characters of the rope, one span per
// character.
func (r Rope) Chars() iter.Seq[Span] {
	return r.units(chunk.CharMetric{}, false)
}

func (r Rope) units(m btree.Metric[chunk.ChunkSlice, chunk.Summary], backward bool) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		if r.IsEmpty() {
			return
		}
		units, err := r.tree.Units(m)
		assert(err == nil, "rope units: metric rejected")
		seq := units.All()
		if backward {
			seq = units.Backward()
		}
		for u := range seq {
			if !yield(Span{slice: u}) {
				return
			}
		}
	}
}
