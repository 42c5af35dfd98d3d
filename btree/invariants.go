package btree

import (
	"fmt"
	"reflect"
)

// Check validates structural tree invariants: all leaves at the same depth,
// fanout within [⌈Degree/2⌉, Degree] for non-root inner nodes, at least two
// children for an inner root, and cached summaries and leaf counts matching
// a recomputation from the children.
//
// Check is meant for tests and debugging; it visits every node.
func (t *Tree[L, S]) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	if t.root == nil {
		if t.height != 0 {
			return fmt.Errorf("%w: empty tree must have height=0", ErrInvariantViolated)
		}
		return nil
	}
	if t.height <= 0 {
		return fmt.Errorf("%w: non-empty tree must have height > 0", ErrInvariantViolated)
	}
	if inner, ok := t.root.(*innerNode[L, S]); ok && len(inner.children) < 2 {
		return fmt.Errorf("%w: inner root has %d children", ErrInvariantViolated, len(inner.children))
	}
	_, height, err := t.checkNode(t.root, true)
	if err != nil {
		return err
	}
	if height != t.height {
		return fmt.Errorf("%w: height mismatch (%d != %d)", ErrInvariantViolated, height, t.height)
	}
	return nil
}

func (t *Tree[L, S]) checkNode(n treeNode[L, S], isRoot bool) (leaves int, height int, err error) {
	switch node := n.(type) {
	case nil:
		return 0, 0, fmt.Errorf("%w: nil node", ErrInvariantViolated)
	case *leafNode[L, S]:
		if node == nil {
			return 0, 0, fmt.Errorf("%w: nil leaf node", ErrInvariantViolated)
		}
		if !reflect.DeepEqual(node.summary, node.leaf.Summary()) {
			return 0, 0, fmt.Errorf("%w: stale leaf summary", ErrInvariantViolated)
		}
		return 1, 1, nil
	case *innerNode[L, S]:
		if len(node.children) == 0 {
			return 0, 0, fmt.Errorf("%w: internal node has no children", ErrInvariantViolated)
		}
		if len(node.children) > t.maxChildren() {
			return 0, 0, fmt.Errorf("%w: child count %d exceeds degree %d",
				ErrInvariantViolated, len(node.children), t.maxChildren())
		}
		if !isRoot && len(node.children) < t.minChildren() {
			return 0, 0, fmt.Errorf("%w: child count %d below minimum fill %d",
				ErrInvariantViolated, len(node.children), t.minChildren())
		}
		summary := t.cfg.Monoid.Zero()
		var childHeight int
		for i, child := range node.children {
			cLeaves, cHeight, cErr := t.checkNode(child, false)
			if cErr != nil {
				return 0, 0, cErr
			}
			leaves += cLeaves
			summary = t.cfg.Monoid.Add(summary, child.Summary())
			if i == 0 {
				childHeight = cHeight
			} else if cHeight != childHeight {
				return 0, 0, fmt.Errorf("%w: non-uniform subtree heights", ErrInvariantViolated)
			}
		}
		if leaves != node.count {
			return 0, 0, fmt.Errorf("%w: cached leaf count %d, counted %d", ErrInvariantViolated, node.count, leaves)
		}
		if !reflect.DeepEqual(summary, node.summary) {
			return 0, 0, fmt.Errorf("%w: stale inner summary", ErrInvariantViolated)
		}
		return leaves, childHeight + 1, nil
	default:
		panic("unknown tree node type")
	}
}
