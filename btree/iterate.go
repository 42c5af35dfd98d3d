package btree

// ForEachLeaf walks leaves in-order.
//
// Iteration stops early if callback returns false.
func (t *Tree[L, S]) ForEachLeaf(fn func(leaf L) bool) {
	if t == nil || t.root == nil || fn == nil {
		return
	}
	t.forEachLeafNode(t.root, fn)
}

func (t *Tree[L, S]) forEachLeafNode(n treeNode[L, S], fn func(leaf L) bool) bool {
	switch node := n.(type) {
	case *leafNode[L, S]:
		return fn(node.leaf)
	case *innerNode[L, S]:
		for _, child := range node.children {
			if !t.forEachLeafNode(child, fn) {
				return false
			}
		}
		return true
	default:
		panic("unknown tree node type")
	}
}

// NodeRef is a read-only handle on a tree node, for clients rendering the
// shape of a tree. Handles to the same shared node compare equal.
type NodeRef[L SummarizedItem[S], S any] struct {
	node treeNode[L, S]
}

// Root returns a handle on the root node, if the tree is not empty.
func (t *Tree[L, S]) Root() (NodeRef[L, S], bool) {
	if t == nil || t.root == nil {
		return NodeRef[L, S]{}, false
	}
	return NodeRef[L, S]{node: t.root}, true
}

// IsLeaf reports whether the node is a leaf.
func (r NodeRef[L, S]) IsLeaf() bool {
	return r.node.isLeaf()
}

// Leaf returns the leaf held by a leaf node.
func (r NodeRef[L, S]) Leaf() (L, bool) {
	if leaf, ok := r.node.(*leafNode[L, S]); ok {
		return leaf.leaf, true
	}
	var zero L
	return zero, false
}

// Summary returns the cached summary of the node.
func (r NodeRef[L, S]) Summary() S {
	return r.node.Summary()
}

// LeafCount returns the number of leaves below the node.
func (r NodeRef[L, S]) LeafCount() int {
	return r.node.leafCount()
}

// Children returns handles on the children of an inner node.
func (r NodeRef[L, S]) Children() []NodeRef[L, S] {
	inner, ok := r.node.(*innerNode[L, S])
	if !ok {
		return nil
	}
	refs := make([]NodeRef[L, S], len(inner.children))
	for i, child := range inner.children {
		refs[i] = NodeRef[L, S]{node: child}
	}
	return refs
}
