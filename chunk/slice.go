package chunk

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ChunkSlice is an immutable view of gap-buffered text.
//
// The view covers `[first segment][gap][second segment]` of a chunk buffer (or
// a sub-range of it). The gap holds undefined bytes and is never read.
// The zero value is a valid, empty view.
type ChunkSlice struct {
	bytes     []byte
	lenFirst  int
	lenSecond int
}

// Len returns the slice length in bytes.
func (s ChunkSlice) Len() int {
	return s.lenFirst + s.lenSecond
}

// LenGap returns the length of the gap enclosed by the view.
func (s ChunkSlice) LenGap() int {
	return len(s.bytes) - s.lenFirst - s.lenSecond
}

// LenFirstSegment returns the length of the text before the gap.
func (s ChunkSlice) LenFirstSegment() int {
	return s.lenFirst
}

// LenSecondSegment returns the length of the text after the gap.
func (s ChunkSlice) LenSecondSegment() int {
	return s.lenSecond
}

// IsEmpty reports whether the slice has no bytes.
func (s ChunkSlice) IsEmpty() bool {
	return s.Len() == 0
}

// FirstSegment returns the text before the gap. Callers must not modify it.
func (s ChunkSlice) FirstSegment() []byte {
	return s.bytes[:s.lenFirst]
}

// SecondSegment returns the text after the gap. Callers must not modify it.
func (s ChunkSlice) SecondSegment() []byte {
	return s.bytes[len(s.bytes)-s.lenSecond:]
}

// LastSegment returns the second segment if it is not empty, the first one
// otherwise.
func (s ChunkSlice) LastSegment() []byte {
	if s.lenSecond > 0 {
		return s.SecondSegment()
	}
	return s.FirstSegment()
}

// HasTrailingNewline reports whether the text ends with a line break.
func (s ChunkSlice) HasTrailingNewline() bool {
	last := s.LastSegment()
	return len(last) > 0 && last[len(last)-1] == '\n'
}

// Byte returns the byte at index i. It panics if i is out of range.
func (s ChunkSlice) Byte(i int) byte {
	if i < 0 || i >= s.Len() {
		panic(fmt.Sprintf("chunk: byte index %d out of range [0,%d)", i, s.Len()))
	}
	if i < s.lenFirst {
		return s.bytes[i]
	}
	return s.bytes[i+s.LenGap()]
}

// ByteSlice returns the view of [start,end).
//
// Offsets must be in range and on char boundaries, otherwise ByteSlice panics.
// Use Slice for a checked variant.
func (s ChunkSlice) ByteSlice(start, end int) ChunkSlice {
	assert(start >= 0 && start <= end && end <= s.Len(), "chunk: byte slice out of range")
	assert(s.IsCharBoundary(start) && s.IsCharBoundary(end), "chunk: byte slice not on char boundary")
	gap := s.LenGap()
	startInFirst, endInFirst := start <= s.lenFirst, end <= s.lenFirst
	switch {
	case startInFirst && endInFirst:
		return ChunkSlice{
			bytes:    s.bytes[start:end:end],
			lenFirst: end - start,
		}
	case startInFirst && !endInFirst:
		return ChunkSlice{
			bytes:     s.bytes[start : end+gap : end+gap],
			lenFirst:  s.lenFirst - start,
			lenSecond: end - s.lenFirst,
		}
	case !startInFirst && !endInFirst:
		return ChunkSlice{
			bytes:     s.bytes[start+gap : end+gap : end+gap],
			lenSecond: end - start,
		}
	default:
		panic("chunk: byte slice starts in second segment but ends in first")
	}
}

// Slice returns a sub-view [start,end) in slice-local byte offsets.
func (s ChunkSlice) Slice(start, end int) (ChunkSlice, error) {
	if start < 0 || end < start || end > s.Len() {
		return ChunkSlice{}, ErrIndexOutOfBounds
	}
	if !s.IsCharBoundary(start) || !s.IsCharBoundary(end) {
		return ChunkSlice{}, ErrNotCharBoundary
	}
	return s.ByteSlice(start, end), nil
}

// SplitAt splits the view into [0,offset) and [offset,Len()).
// It panics if offset is out of range or not on a char boundary.
func (s ChunkSlice) SplitAt(offset int) (ChunkSlice, ChunkSlice) {
	return s.ByteSlice(0, offset), s.ByteSlice(offset, s.Len())
}

// IsCharBoundary reports whether offset is a UTF-8 boundary inside this slice.
func (s ChunkSlice) IsCharBoundary(offset int) bool {
	if offset < 0 || offset > s.Len() {
		return false
	}
	if offset <= s.lenFirst {
		return isCharBoundary(s.FirstSegment(), offset)
	}
	return isCharBoundary(s.SecondSegment(), offset-s.lenFirst)
}

// ByteOfLine returns the byte offset where the zero-based line starts, i.e. the
// offset just after the line-th line break. If the text has fewer line
// breaks, Len() is returned.
func (s ChunkSlice) ByteOfLine(line int) int {
	first := s.FirstSegment()
	if offset := byteOfLine(first, line); offset < s.lenFirst {
		return offset
	}
	return s.lenFirst + byteOfLine(s.SecondSegment(), line-countLineBreaks(first))
}

// ByteOfChar returns the byte offset of the n-th (zero-based) character, or
// Len() if the text holds n characters or fewer.
func (s ChunkSlice) ByteOfChar(n int) int {
	first := s.FirstSegment()
	if offset := byteOfChar(first, n); offset < s.lenFirst {
		return offset
	}
	return s.lenFirst + byteOfChar(s.SecondSegment(), n-utf8.RuneCount(first))
}

// String returns the slice text.
func (s ChunkSlice) String() string {
	var sb strings.Builder
	sb.Grow(s.Len())
	sb.Write(s.FirstSegment())
	sb.Write(s.SecondSegment())
	return sb.String()
}

// Bytes returns a copied byte slice of the slice text.
func (s ChunkSlice) Bytes() []byte {
	return s.AppendTo(make([]byte, 0, s.Len()))
}

// AppendTo appends the slice text to dst and returns the extended buffer.
func (s ChunkSlice) AppendTo(dst []byte) []byte {
	dst = append(dst, s.FirstSegment()...)
	return append(dst, s.SecondSegment()...)
}

// GoString renders the view for debugging, showing the gap as '~' filler
// between the two segments, e.g. "He~~~~~llo".
func (s ChunkSlice) GoString() string {
	var sb strings.Builder
	sb.WriteByte('"')
	sb.WriteString(quoteNoQuotes(s.FirstSegment()))
	sb.WriteString(strings.Repeat("~", s.LenGap()))
	sb.WriteString(quoteNoQuotes(s.SecondSegment()))
	sb.WriteByte('"')
	return sb.String()
}

func quoteNoQuotes(b []byte) string {
	q := strconv.Quote(string(b))
	return q[1 : len(q)-1]
}

func isCharBoundary(text []byte, offset int) bool {
	if offset == 0 || offset == len(text) {
		return true
	}
	return utf8.RuneStart(text[offset])
}
