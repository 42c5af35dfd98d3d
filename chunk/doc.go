/*
Package chunk implements the leaf storage of a gap-buffer rope.

A Chunk is a small, bounded gap buffer. Text lives in two segments separated
by an unused gap, and edits move the gap to where they happen. Tree leaves
never store a Chunk directly, they store an immutable ChunkSlice view of one.
Views are cheap to sub-slice and never copy text.

Every view is summarized by a Summary (bytes, characters, line breaks), and
the metrics in this package (ByteMetric, LineMetric, CharMetric) know how to
measure a summary and how to cut a view after a given number of units.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package chunk

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
