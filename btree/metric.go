package btree

// Metric is an indexing dimension over leaf summaries, e.g. bytes or lines.
//
// Measure counts the units completed within a summary. A unit ends with the
// item that completes it; whatever follows the last completed unit of a
// sequence forms a trailing partial unit.
//
// SplitLeft cuts leaf just after its units-th unit, 0 < units <= Measure(summary).
// The left part measures exactly units, and left followed by right (if
// hasRight) reproduces leaf and summary exactly. If the cut falls at the
// end of leaf, hasRight is false.
type Metric[L SummarizedItem[S], S any] interface {
	Measure(summary S) uint64
	SplitLeft(leaf L, summary S, units uint64) (left L, leftSummary S, right L, hasRight bool)
}

// Part is a leaf together with its summary, as held at the boundaries of a
// TreeSlice.
type Part[L SummarizedItem[S], S any] struct {
	Leaf    L
	Summary S
}

// splitPart cuts a leaf node with m, returning nodes for both halves.
// right is nil if the cut falls at the end of n.
func splitPart[L SummarizedItem[S], S any](m Metric[L, S], n *leafNode[L, S], units uint64) (left, right *leafNode[L, S]) {
	l, ls, r, hasRight := m.SplitLeft(n.leaf, n.summary, units)
	if !hasRight {
		return n, nil
	}
	return makePart[L, S](l, ls), makeLeaf[L, S](r)
}
