package btree

// cloneInner copies an inner node for path-copy updates. Children are shared.
func (t *Tree[L, S]) cloneInner(inner *innerNode[L, S]) *innerNode[L, S] {
	if inner == nil {
		return nil
	}
	return &innerNode[L, S]{
		summary:  inner.summary,
		count:    inner.count,
		children: append([]treeNode[L, S](nil), inner.children...),
	}
}

// recomputeInnerSummary refreshes the cached summary and leaf count of inner.
func (t *Tree[L, S]) recomputeInnerSummary(inner *innerNode[L, S]) {
	assert(inner != nil, "recomputeInnerSummary called with nil inner node")
	inner.summary = t.cfg.Monoid.Zero()
	inner.count = 0
	for _, child := range inner.children {
		if child != nil {
			inner.summary = t.cfg.Monoid.Add(inner.summary, child.Summary())
			inner.count += child.leafCount()
		}
	}
}

// insertAt inserts values into a slice at idx and returns a new slice.
func insertAt[T any](src []T, idx int, values ...T) []T {
	assert(idx >= 0 && idx <= len(src), "insertAt index out of range")
	if len(values) == 0 {
		return append([]T(nil), src...)
	}
	out := make([]T, 0, len(src)+len(values))
	out = append(out, src[:idx]...)
	out = append(out, values...)
	out = append(out, src[idx:]...)
	return out
}

// removeRange removes the half-open interval [from,to) from a slice.
func removeRange[T any](src []T, from, to int) []T {
	assert(from >= 0 && from <= to && to <= len(src), "removeRange bounds invalid")
	out := make([]T, 0, len(src)-(to-from))
	out = append(out, src[:from]...)
	out = append(out, src[to:]...)
	return out
}

func (t *Tree[L, S]) insertChildAt(inner *innerNode[L, S], idx int, child treeNode[L, S]) {
	assert(inner != nil, "insertChildAt called with nil inner node")
	assert(idx >= 0 && idx <= len(inner.children), "insertChildAt index out of range")
	inner.children = insertAt(inner.children, idx, child)
	t.recomputeInnerSummary(inner)
}

func (t *Tree[L, S]) removeChildAt(inner *innerNode[L, S], idx int) {
	assert(inner != nil, "removeChildAt called with nil inner node")
	assert(idx >= 0 && idx < len(inner.children), "removeChildAt index out of range")
	inner.children = removeRange(inner.children, idx, idx+1)
	t.recomputeInnerSummary(inner)
}

func (t *Tree[L, S]) maxChildren() int {
	return t.cfg.Degree
}

func (t *Tree[L, S]) minChildren() int {
	return t.cfg.minFill()
}

func (t *Tree[L, S]) innerOverflow(inner *innerNode[L, S]) bool {
	return inner != nil && len(inner.children) > t.maxChildren()
}

func (t *Tree[L, S]) innerUnderflow(inner *innerNode[L, S], isRoot bool) bool {
	if inner == nil || isRoot {
		return false
	}
	return len(inner.children) < t.minChildren()
}

// splitInner splits one overflowing internal node into two siblings.
//
// Nodes overflow by at most one child per step, so one promoted sibling is
// always enough.
func (t *Tree[L, S]) splitInner(inner *innerNode[L, S]) (*innerNode[L, S], *innerNode[L, S]) {
	assert(inner != nil, "splitInner called with nil inner node")
	n := len(inner.children)
	if n <= t.maxChildren() {
		return t.cloneInner(inner), nil
	}
	assert(n <= 2*t.maxChildren(), "splitInner requires more than one promoted sibling")
	mid := n / 2
	left := t.makeInternal(inner.children[:mid]...)
	right := t.makeInternal(inner.children[mid:]...)
	assert(len(left.children) >= t.minChildren() && len(right.children) >= t.minChildren(),
		"splitInner violates internal occupancy bounds")
	return left, right
}
