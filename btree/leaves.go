package btree

import "iter"

// Leaves iterates the leaves of a tree or slice, from the front with Next
// and from the back with Prev. Both ends may be mixed; no leaf is yielded
// twice. Once exhausted, the iterator stays exhausted.
type Leaves[L SummarizedItem[S], S any] struct {
	front, back walker[L, S]
	remaining   int
}

func (f forest[L, S]) leaves() *Leaves[L, S] {
	return &Leaves[L, S]{
		front:     newWalker(f.roots, false),
		back:      newWalker(f.roots, true),
		remaining: f.count,
	}
}

// Next returns the next leaf from the front.
func (it *Leaves[L, S]) Next() (L, bool) {
	var zero L
	if it.remaining == 0 {
		return zero, false
	}
	leaf, ok := it.front.nextLeaf()
	assert(ok, "leaves iterator ran out of leaves early")
	it.remaining--
	return leaf.leaf, true
}

// Prev returns the next leaf from the back.
func (it *Leaves[L, S]) Prev() (L, bool) {
	var zero L
	if it.remaining == 0 {
		return zero, false
	}
	leaf, ok := it.back.nextLeaf()
	assert(ok, "leaves iterator ran out of leaves early")
	it.remaining--
	return leaf.leaf, true
}

// All yields the remaining leaves front to back.
func (it *Leaves[L, S]) All() iter.Seq[L] {
	return func(yield func(L) bool) {
		for {
			leaf, ok := it.Next()
			if !ok || !yield(leaf) {
				return
			}
		}
	}
}

// Backward yields the remaining leaves back to front.
func (it *Leaves[L, S]) Backward() iter.Seq[L] {
	return func(yield func(L) bool) {
		for {
			leaf, ok := it.Prev()
			if !ok || !yield(leaf) {
				return
			}
		}
	}
}
