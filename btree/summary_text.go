package btree

import "bytes"

// TextSummary is a minimal summary for plain byte-slice text leaves.
type TextSummary struct {
	Bytes uint64
	Lines uint64
}

// TextChunk is a plain text leaf without gap buffer, summarized at the type
// level. It is the simplest leaf a rope tree can hold.
type TextChunk []byte

// FromString creates a text chunk from a Go string.
func FromString(s string) TextChunk {
	return TextChunk([]byte(s))
}

// Summary returns bytes/lines for this chunk.
func (chunk TextChunk) Summary() TextSummary {
	return TextSummary{
		Bytes: uint64(len(chunk)),
		Lines: uint64(bytes.Count(chunk, []byte{'\n'})),
	}
}

// TextMonoid aggregates TextSummary values.
type TextMonoid struct{}

// Zero returns the neutral summary.
func (TextMonoid) Zero() TextSummary {
	return TextSummary{}
}

// Add combines two summaries.
func (TextMonoid) Add(left, right TextSummary) TextSummary {
	return TextSummary{
		Bytes: left.Bytes + right.Bytes,
		Lines: left.Lines + right.Lines,
	}
}

// TextByteMetric measures text chunks in bytes.
type TextByteMetric struct{}

// Measure returns the number of bytes.
func (TextByteMetric) Measure(s TextSummary) uint64 { return s.Bytes }

// SplitLeft cuts chunk after units bytes.
func (TextByteMetric) SplitLeft(chunk TextChunk, s TextSummary, units uint64) (TextChunk, TextSummary, TextChunk, bool) {
	return splitText(chunk, s, int(units))
}

// TextLineMetric measures text chunks in line breaks.
type TextLineMetric struct{}

// Measure returns the number of line breaks.
func (TextLineMetric) Measure(s TextSummary) uint64 { return s.Lines }

// SplitLeft cuts chunk just after its units-th line break.
func (TextLineMetric) SplitLeft(chunk TextChunk, s TextSummary, units uint64) (TextChunk, TextSummary, TextChunk, bool) {
	offset := 0
	for range units {
		i := bytes.IndexByte(chunk[offset:], '\n')
		assert(i >= 0, "text line metric split beyond chunk")
		offset += i + 1
	}
	return splitText(chunk, s, offset)
}

func splitText(chunk TextChunk, s TextSummary, offset int) (TextChunk, TextSummary, TextChunk, bool) {
	assert(offset >= 0 && offset <= len(chunk), "text chunk split out of range")
	if offset == len(chunk) {
		return chunk, s, nil, false
	}
	left := chunk[:offset:offset]
	return left, left.Summary(), chunk[offset:], true
}
