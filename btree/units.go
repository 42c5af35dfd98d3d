package btree

import (
	"fmt"
	"iter"
	"slices"
)

// Units iterates the units of a metric, yielding one TreeSlice per unit.
//
// Each slice holds exactly one unit, closed by the leaf part completing it.
// Content after the last completed unit is yielded as a final partial unit
// measuring zero. Runs of leaves and subtrees measuring zero are taken into
// the unit they belong to as shared nodes, without visiting their leaves.
//
// Like Leaves, Units may be driven from both ends and is fused.
type Units[L SummarizedItem[S], S any] struct {
	cfg    Config[S]
	metric Metric[L, S]
	front  walker[L, S]
	back   walker[L, S]

	pending        *leafNode[L, S] // remainder of a leaf cut by Next
	backPending    *leafNode[L, S] // remainder of a leaf cut by Prev
	backAtBoundary bool            // the unit at the back still has to claim its closing part
	remaining      uint64
}

func (f forest[L, S]) units(m Metric[L, S]) (*Units[L, S], error) {
	if m == nil {
		return nil, fmt.Errorf("%w: metric is nil", ErrInvalidMetric)
	}
	it := &Units[L, S]{
		cfg:    f.cfg,
		metric: m,
		front:  newWalker(f.roots, false),
		back:   newWalker(f.roots, true),
	}
	if len(f.roots) == 0 {
		return it, nil
	}
	it.remaining = m.Measure(f.summary)
	trailing := f.hasTrailingUnit(m)
	if trailing {
		it.remaining++
	}
	it.backAtBoundary = !trailing
	return it, nil
}

// hasTrailingUnit reports whether anything follows the last unit boundary.
func (f forest[L, S]) hasTrailingUnit(m Metric[L, S]) bool {
	last := lastLeaf[L, S](f.roots[len(f.roots)-1])
	units := m.Measure(last.summary)
	if units == 0 {
		return true
	}
	_, right := splitPart(m, last, units)
	return right != nil
}

// Remaining returns the number of units not yet yielded.
func (it *Units[L, S]) Remaining() uint64 {
	return it.remaining
}

// Next returns the next unit from the front.
func (it *Units[L, S]) Next() (TreeSlice[L, S], bool) {
	if it.remaining == 0 {
		return TreeSlice[L, S]{}, false
	}
	var pieces []treeNode[L, S]
	for {
		cur := it.pending
		it.pending = nil
		if cur == nil {
			n, ok := it.front.advance()
			if !ok {
				break
			}
			if it.metric.Measure(n.Summary()) == 0 {
				pieces = append(pieces, n)
				continue
			}
			inner, isInner := n.(*innerNode[L, S])
			if isInner {
				it.front.descend(inner)
				continue
			}
			cur = n.(*leafNode[L, S])
		}
		if it.metric.Measure(cur.summary) == 0 {
			pieces = append(pieces, cur)
			continue
		}
		left, right := splitPart(it.metric, cur, 1)
		pieces = append(pieces, left)
		it.pending = right
		break
	}
	assert(len(pieces) > 0, "units iterator ran out of content early")
	it.remaining--
	return assemble(it.cfg, pieces), true
}

// Prev returns the next unit from the back.
func (it *Units[L, S]) Prev() (TreeSlice[L, S], bool) {
	if it.remaining == 0 {
		return TreeSlice[L, S]{}, false
	}
	var pieces []treeNode[L, S] // collected back to front
	atBoundary := it.backAtBoundary
	for {
		cur := it.backPending
		it.backPending = nil
		if cur == nil {
			n, ok := it.back.advance()
			if !ok {
				break
			}
			if it.metric.Measure(n.Summary()) == 0 {
				pieces = append(pieces, n)
				continue
			}
			inner, isInner := n.(*innerNode[L, S])
			if isInner {
				it.back.descend(inner)
				continue
			}
			cur = n.(*leafNode[L, S])
		}
		need := it.metric.Measure(cur.summary)
		if need == 0 {
			pieces = append(pieces, cur)
			continue
		}
		if atBoundary {
			need--
		}
		if need == 0 {
			pieces = append(pieces, cur)
			atBoundary = false
			continue
		}
		left, right := splitPart(it.metric, cur, need)
		if right != nil {
			pieces = append(pieces, right)
		}
		it.backPending = left
		atBoundary = true
		break
	}
	assert(len(pieces) > 0, "units iterator ran out of content early")
	it.backAtBoundary = atBoundary
	it.remaining--
	slices.Reverse(pieces)
	return assemble(it.cfg, pieces), true
}

// All yields the remaining units front to back.
func (it *Units[L, S]) All() iter.Seq[TreeSlice[L, S]] {
	return func(yield func(TreeSlice[L, S]) bool) {
		for {
			unit, ok := it.Next()
			if !ok || !yield(unit) {
				return
			}
		}
	}
}

// Backward yields the remaining units back to front.
func (it *Units[L, S]) Backward() iter.Seq[TreeSlice[L, S]] {
	return func(yield func(TreeSlice[L, S]) bool) {
		for {
			unit, ok := it.Prev()
			if !ok || !yield(unit) {
				return
			}
		}
	}
}
