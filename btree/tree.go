package btree

import (
	"fmt"
	"iter"
	"slices"
)

// Tree is a persistent, rope-oriented B+ sum-tree.
//
// L is the leaf type (for ropes usually chunk views), S is the summary type
// aggregated through the tree. Every leaf node holds exactly one L; every
// inner node caches the summary and the leaf count of its subtree.
//
// Trees are immutable values: all editing operations return a new tree which
// shares every untouched subtree with the receiver.
type Tree[L SummarizedItem[S], S any] struct {
	cfg    Config[S]
	root   treeNode[L, S]
	height int // 0 means empty tree
}

// New creates an empty tree with validated configuration.
func New[L SummarizedItem[S], S any](cfg Config[S]) (*Tree[L, S], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()
	return &Tree[L, S]{cfg: cfg}, nil
}

// FromLeaves builds a balanced tree from an ordered sequence of leaves.
//
// Construction runs bottom-up in a single pass: each level is grouped into
// the fewest possible runs of at most Degree nodes, spread evenly so that
// every run meets the minimum fill, and each run becomes an inner node of the
// next level.
func FromLeaves[L SummarizedItem[S], S any](cfg Config[S], leaves ...L) (*Tree[L, S], error) {
	t, err := New[L, S](cfg)
	if err != nil {
		return nil, err
	}
	if len(leaves) == 0 {
		return t, nil
	}
	level := make([]treeNode[L, S], len(leaves))
	for i, leaf := range leaves {
		level[i] = makeLeaf[L, S](leaf)
	}
	height := 1
	for len(level) > 1 {
		level = t.buildLevel(level)
		height++
	}
	t.root = level[0]
	t.height = height
	tracer().Debugf("btree: built tree of %d leaves, height %d", len(leaves), height)
	return t, nil
}

// Collect builds a balanced tree from the leaves produced by seq.
func Collect[L SummarizedItem[S], S any](cfg Config[S], seq iter.Seq[L]) (*Tree[L, S], error) {
	return FromLeaves(cfg, slices.Collect(seq)...)
}

func (t *Tree[L, S]) buildLevel(nodes []treeNode[L, S]) []treeNode[L, S] {
	degree := t.maxChildren()
	groups := (len(nodes) + degree - 1) / degree
	base, extra := len(nodes)/groups, len(nodes)%groups
	parents := make([]treeNode[L, S], 0, groups)
	for g, i := 0, 0; g < groups; g++ {
		size := base
		if g < extra {
			size++
		}
		parents = append(parents, t.makeInternal(nodes[i:i+size]...))
		i += size
	}
	return parents
}

// Config returns a copy of the effective tree configuration.
func (t *Tree[L, S]) Config() Config[S] {
	return t.cfg
}

// Clone returns a shallow clone of the tree root container.
//
// Node contents are shared; mutating operations use path-copy semantics.
func (t *Tree[L, S]) Clone() *Tree[L, S] {
	if t == nil {
		return nil
	}
	cloned := *t
	return &cloned
}

// IsEmpty reports whether the tree has no leaves.
func (t *Tree[L, S]) IsEmpty() bool {
	return t == nil || t.root == nil
}

// Len returns the number of leaves in the tree.
func (t *Tree[L, S]) Len() int {
	if t == nil || t.root == nil {
		return 0
	}
	return t.root.leafCount()
}

// Height returns the tree height, where 0 means empty and 1 means a leaf root.
func (t *Tree[L, S]) Height() int {
	if t == nil {
		return 0
	}
	return t.height
}

// Summary returns the root summary, or Zero() for an empty tree.
func (t *Tree[L, S]) Summary() S {
	if t == nil || t.cfg.Monoid == nil {
		var zero S
		return zero
	}
	if t.root == nil {
		return t.cfg.Monoid.Zero()
	}
	return t.root.Summary()
}

// InsertAt inserts leaves at a leaf index and returns a new tree.
func (t *Tree[L, S]) InsertAt(index int, leaves ...L) (*Tree[L, S], error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	if index < 0 || index > t.Len() {
		return nil, ErrIndexOutOfBounds
	}
	if len(leaves) == 0 {
		return t, nil
	}
	cloned := t.Clone()
	for i, leaf := range leaves {
		cloned.insertOneAt(index+i, leaf)
	}
	return cloned, nil
}

// DeleteAt removes the leaf at index and returns a new tree.
//
// Delete uses recursive path-copy with sibling borrow/merge rebalancing.
func (t *Tree[L, S]) DeleteAt(index int) (*Tree[L, S], error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	if index < 0 || index >= t.Len() {
		return nil, ErrIndexOutOfBounds
	}
	cloned := t.Clone()
	cloned.deleteOneAt(index)
	return cloned, nil
}

// DeleteRange removes count leaves starting at index and returns a new tree.
func (t *Tree[L, S]) DeleteRange(index, count int) (*Tree[L, S], error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	size := t.Len()
	if index < 0 || count < 0 || index > size || index+count > size {
		return nil, ErrIndexOutOfBounds
	}
	if count == 0 {
		return t, nil
	}
	cloned := t.Clone()
	for range count {
		cloned.deleteOneAt(index)
	}
	return cloned, nil
}

// ReplaceAt replaces the leaf at index and returns a new tree.
//
// Only the path from the root to the leaf is copied; the shape of the tree
// does not change.
func (t *Tree[L, S]) ReplaceAt(index int, leaf L) (*Tree[L, S], error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	if index < 0 || index >= t.Len() {
		return nil, ErrIndexOutOfBounds
	}
	cloned := t.Clone()
	cloned.root = cloned.replaceRecursive(cloned.root, index, leaf)
	return cloned, nil
}

// Splice removes count leaves starting at index, inserts leaves in their
// place and returns a new tree.
func (t *Tree[L, S]) Splice(index, count int, leaves ...L) (*Tree[L, S], error) {
	if count == 1 && len(leaves) == 1 {
		return t.ReplaceAt(index, leaves[0])
	}
	trimmed, err := t.DeleteRange(index, count)
	if err != nil {
		return nil, err
	}
	return trimmed.InsertAt(index, leaves...)
}

// normalizeRoot canonicalizes root representation after structural edits.
//
// It applies the standard B-tree root rules:
//   - nil root => empty tree (height 0)
//   - leaf root => height 1
//   - internal root with single child => collapse repeatedly.
func (t *Tree[L, S]) normalizeRoot() {
	if t == nil {
		return
	}
	t.root = normalizeNode[L, S](t.root)
	if t.root == nil {
		t.height = 0
		return
	}
	for {
		inner, ok := t.root.(*innerNode[L, S])
		if !ok {
			t.height = 1
			return
		}
		if len(inner.children) != 1 {
			return
		}
		t.root = normalizeNode[L, S](inner.children[0])
		t.height--
		tracer().Debugf("btree: collapsed root, height now %d", t.height)
		if t.root == nil {
			t.height = 0
			return
		}
	}
}

// deleteOneAt performs a single-leaf delete on this tree in place.
//
// The receiver is expected to be a private clone when called from public APIs.
func (t *Tree[L, S]) deleteOneAt(index int) {
	assert(t.root != nil, "deleteOneAt called on empty tree")
	if t.height == 1 {
		assert(index == 0, "deleteOneAt index out of leaf root")
		t.root = nil
		t.height = 0
		return
	}
	updated, _ := t.deleteRecursive(t.root.(*innerNode[L, S]), t.height, index, true)
	t.root = normalizeNode[L, S](updated)
	t.normalizeRoot()
	t.assertDeleteRootNormalized()
}

// assertDeleteRootNormalized verifies post-delete root invariants.
//
// Violations indicate a tree algorithm bug, not an input error.
func (t *Tree[L, S]) assertDeleteRootNormalized() {
	if t.root == nil {
		assert(t.height == 0, "delete root normalization: nil root must have height 0")
		return
	}
	if t.root.isLeaf() {
		assert(t.height == 1, "delete root normalization: root leaf must have height 1")
		return
	}
	inner := t.root.(*innerNode[L, S])
	assert(len(inner.children) > 1, "delete root normalization: root inner must have at least 2 children")
	assert(t.height >= 2, "delete root normalization: root inner must have height >= 2")
}

// deleteRecursive removes the leaf at index from the subtree of inner.
//
// Returns:
//   - updated subtree root (nil if the subtree became empty)
//   - needsRebalance: whether the caller must repair occupancy at parent level.
//
// The algorithm is path-copy and mirrors insertion unwind structure.
func (t *Tree[L, S]) deleteRecursive(
	inner *innerNode[L, S], height, index int, isRoot bool,
) (updated treeNode[L, S], needsRebalance bool) {
	assert(inner != nil, "deleteRecursive called with nil node")
	assert(height > 1, "deleteRecursive called with invalid height")
	cloned := t.cloneInner(inner)
	slot, localIndex := t.locateChild(cloned, index)
	if height == 2 {
		assert(localIndex == 0, "deleteRecursive routed into a leaf")
		t.removeChildAt(cloned, slot)
	} else {
		child, ok := cloned.children[slot].(*innerNode[L, S])
		assert(ok, "deleteRecursive expected internal child")
		updatedChild, childNeedsRebalance := t.deleteRecursive(child, height-1, localIndex, false)
		updatedChild = normalizeNode[L, S](updatedChild)
		if updatedChild == nil {
			t.removeChildAt(cloned, slot)
		} else {
			cloned.children[slot] = updatedChild
			t.recomputeInnerSummary(cloned)
			if childNeedsRebalance && len(cloned.children) > 1 {
				resolved := t.rebalanceInnerChild(cloned, slot)
				assert(resolved, "deleteRecursive could not rebalance child")
			}
		}
	}
	if len(cloned.children) == 0 {
		return nil, !isRoot
	}
	return cloned, t.innerUnderflow(cloned, isRoot)
}

// insertOneAt inserts one leaf into this tree in place.
//
// Like deleteOneAt, callers should use a private clone to preserve persistence.
func (t *Tree[L, S]) insertOneAt(index int, leaf L) {
	node := makeLeaf[L, S](leaf)
	switch t.height {
	case 0:
		t.root = node
		t.height = 1
		return
	case 1:
		if index == 0 {
			t.root = t.makeInternal(node, t.root)
		} else {
			t.root = t.makeInternal(t.root, node)
		}
		t.height = 2
		return
	}
	updated, promoted := t.insertRecursive(t.root.(*innerNode[L, S]), t.height, index, node)
	if promoted != nil {
		t.root = t.makeInternal(updated, promoted)
		t.height++
		tracer().Debugf("btree: split root, height now %d", t.height)
		return
	}
	t.root = updated
}

// insertRecursive inserts one leaf node into the subtree of inner and
// propagates split results.
//
// The returned promoted sibling is non-nil only when the updated subtree split.
func (t *Tree[L, S]) insertRecursive(inner *innerNode[L, S], height, index int, node *leafNode[L, S]) (*innerNode[L, S], *innerNode[L, S]) {
	assert(inner != nil, "insertRecursive called with nil node")
	assert(height > 1, "insertRecursive called with invalid height")
	cloned := t.cloneInner(inner)
	if height == 2 {
		assert(index <= len(cloned.children), "insertRecursive index beyond leaf run")
		t.insertChildAt(cloned, index, node)
	} else {
		slot, localIndex := t.locateChildForInsert(cloned, index)
		child, ok := cloned.children[slot].(*innerNode[L, S])
		assert(ok, "insertRecursive expected internal child")
		updatedChild, promotedChild := t.insertRecursive(child, height-1, localIndex, node)
		cloned.children[slot] = updatedChild
		if promotedChild != nil {
			t.insertChildAt(cloned, slot+1, promotedChild)
		} else {
			t.recomputeInnerSummary(cloned)
		}
	}
	if !t.innerOverflow(cloned) {
		return cloned, nil
	}
	return t.splitInner(cloned)
}

func (t *Tree[L, S]) replaceRecursive(n treeNode[L, S], index int, leaf L) treeNode[L, S] {
	switch node := n.(type) {
	case *leafNode[L, S]:
		assert(index == 0, "replaceRecursive routed into a leaf")
		return makeLeaf[L, S](leaf)
	case *innerNode[L, S]:
		cloned := t.cloneInner(node)
		slot, localIndex := t.locateChild(cloned, index)
		cloned.children[slot] = t.replaceRecursive(cloned.children[slot], localIndex, leaf)
		t.recomputeInnerSummary(cloned)
		return cloned
	default:
		panic("unknown tree node type")
	}
}

// locateChildForInsert maps a subtree leaf index to child slot + local index.
//
// It uses `remaining <= childLeaves` so boundary indices land in the left child,
// matching insertion semantics at child seams.
func (t *Tree[L, S]) locateChildForInsert(inner *innerNode[L, S], index int) (childSlot int, localIndex int) {
	assert(inner != nil, "locateChildForInsert called with nil inner node")
	assert(len(inner.children) > 0, "locateChildForInsert called with empty children")
	assert(index >= 0, "locateChildForInsert called with negative index")
	remaining := index
	for i, child := range inner.children {
		childLeaves := child.leafCount()
		if remaining <= childLeaves {
			return i, remaining
		}
		remaining -= childLeaves
	}
	panic("locateChildForInsert index exceeded subtree leaf count")
}

// locateChild maps a subtree leaf index to child slot + local index.
//
// It uses `remaining < childLeaves` so each absolute index is owned by exactly
// one child.
func (t *Tree[L, S]) locateChild(inner *innerNode[L, S], index int) (childSlot int, localIndex int) {
	assert(inner != nil, "locateChild called with nil inner node")
	assert(len(inner.children) > 0, "locateChild called with empty children")
	assert(index >= 0, "locateChild called with negative index")
	remaining := index
	for i, child := range inner.children {
		childLeaves := child.leafCount()
		if remaining < childLeaves {
			return i, remaining
		}
		remaining -= childLeaves
	}
	panic("locateChild index exceeded subtree leaf count")
}

// applyRebalancePolicy centralizes sibling operation order after delete:
// borrow-left, borrow-right, merge-left, merge-right.
func (t *Tree[L, S]) applyRebalancePolicy(
	parent *innerNode[L, S], slot int,
	borrowLeft func() bool,
	borrowRight func() bool,
	mergeLeft func() bool,
	mergeRight func() bool,
) bool {
	assert(parent != nil, "applyRebalancePolicy called with nil parent")
	assert(slot >= 0 && slot < len(parent.children), "applyRebalancePolicy slot out of range")
	hasLeft := slot > 0
	hasRight := slot+1 < len(parent.children)
	if hasLeft && borrowLeft() {
		return true
	}
	if hasRight && borrowRight() {
		return true
	}
	if hasLeft && mergeLeft() {
		return true
	}
	if hasRight && mergeRight() {
		return true
	}
	return false
}

// rebalanceInnerChild applies borrow/merge to an underfull internal child.
//
// Child pointers are moved between siblings; siblings that change are copied
// first, the child itself is already a private copy.
func (t *Tree[L, S]) rebalanceInnerChild(parent *innerNode[L, S], slot int) bool {
	child, ok := parent.children[slot].(*innerNode[L, S])
	assert(ok, "rebalanceInnerChild expected internal child")
	if !t.innerUnderflow(child, false) {
		return true
	}
	sibling := func(i int) *innerNode[L, S] {
		s, ok := parent.children[i].(*innerNode[L, S])
		assert(ok, "rebalanceInnerChild expected internal sibling")
		return s
	}
	return t.applyRebalancePolicy(
		parent, slot,
		func() bool {
			left := sibling(slot - 1)
			if len(left.children) <= t.minChildren() {
				return false
			}
			leftClone := t.cloneInner(left)
			parent.children[slot-1] = leftClone
			borrowed := leftClone.children[len(leftClone.children)-1]
			t.removeChildAt(leftClone, len(leftClone.children)-1)
			t.insertChildAt(child, 0, borrowed)
			t.recomputeInnerSummary(parent)
			return true
		},
		func() bool {
			right := sibling(slot + 1)
			if len(right.children) <= t.minChildren() {
				return false
			}
			rightClone := t.cloneInner(right)
			parent.children[slot+1] = rightClone
			borrowed := rightClone.children[0]
			t.removeChildAt(rightClone, 0)
			t.insertChildAt(child, len(child.children), borrowed)
			t.recomputeInnerSummary(parent)
			return true
		},
		func() bool {
			left := sibling(slot - 1)
			merged := make([]treeNode[L, S], 0, len(left.children)+len(child.children))
			merged = append(merged, left.children...)
			merged = append(merged, child.children...)
			parent.children[slot-1] = t.makeInternal(merged...)
			t.removeChildAt(parent, slot)
			return true
		},
		func() bool {
			right := sibling(slot + 1)
			merged := make([]treeNode[L, S], 0, len(child.children)+len(right.children))
			merged = append(merged, child.children...)
			merged = append(merged, right.children...)
			parent.children[slot] = t.makeInternal(merged...)
			t.removeChildAt(parent, slot+1)
			return true
		},
	)
}

// normalizeNode removes typed-nil interface wrappers.
//
// It prevents accidental non-nil interface values that wrap nil pointers.
func normalizeNode[L SummarizedItem[S], S any](n treeNode[L, S]) treeNode[L, S] {
	switch v := n.(type) {
	case nil:
		return nil
	case *leafNode[L, S]:
		if v == nil {
			return nil
		}
	case *innerNode[L, S]:
		if v == nil {
			return nil
		}
	}
	return n
}
