package chunk

import "unicode/utf8"

// Summary aggregates chunk-level text metrics for tree routing.
//
// Tree-level code uses this summary to navigate and aggregate, while chunk
// code keeps ownership of local byte/rune boundary logic.
type Summary struct {
	Bytes uint64
	Chars uint64
	Lines uint64 // number of LF line breaks
}

// Add returns the combined summary of s followed by other.
func (s Summary) Add(other Summary) Summary {
	return Summary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
	}
}

// Sub returns the summary of s with a prefix or suffix summarized by other
// removed.
func (s Summary) Sub(other Summary) Summary {
	assert(other.Bytes <= s.Bytes && other.Chars <= s.Chars && other.Lines <= s.Lines,
		"chunk: summary subtraction underflow")
	return Summary{
		Bytes: s.Bytes - other.Bytes,
		Chars: s.Chars - other.Chars,
		Lines: s.Lines - other.Lines,
	}
}

// Summary returns aggregate metrics for this chunk view.
func (s ChunkSlice) Summary() Summary {
	first, second := s.FirstSegment(), s.SecondSegment()
	return Summary{
		Bytes: uint64(s.Len()),
		Chars: uint64(utf8.RuneCount(first) + utf8.RuneCount(second)),
		Lines: uint64(countLineBreaks(first) + countLineBreaks(second)),
	}
}

// Monoid aggregates chunk summaries for B+ sum-tree internal nodes.
type Monoid struct{}

// Zero returns the neutral summary value.
func (Monoid) Zero() Summary { return Summary{} }

// Add combines two summaries.
func (Monoid) Add(left, right Summary) Summary {
	return left.Add(right)
}
