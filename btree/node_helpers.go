package btree

// makeLeaf materializes a new leaf node for leaf and caches its summary.
func makeLeaf[L SummarizedItem[S], S any](leaf L) *leafNode[L, S] {
	return &leafNode[L, S]{
		summary: leaf.Summary(),
		leaf:    leaf,
	}
}

// makePart materializes a leaf node from a leaf with a known summary.
func makePart[L SummarizedItem[S], S any](leaf L, summary S) *leafNode[L, S] {
	return &leafNode[L, S]{
		summary: summary,
		leaf:    leaf,
	}
}

// makeInternal materializes a new internal node and computes its summary and
// leaf count from its children.
func (t *Tree[L, S]) makeInternal(children ...treeNode[L, S]) *innerNode[L, S] {
	inner := &innerNode[L, S]{
		children: append([]treeNode[L, S](nil), children...),
	}
	t.recomputeInnerSummary(inner)
	return inner
}
