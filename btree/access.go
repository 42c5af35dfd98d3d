package btree

// At returns the leaf at index.
func (t *Tree[L, S]) At(index int) (L, error) {
	var zero L
	if t == nil || t.root == nil {
		return zero, ErrIndexOutOfBounds
	}
	if index < 0 || index >= t.Len() {
		return zero, ErrIndexOutOfBounds
	}
	return t.atNode(t.root, index), nil
}

func (t *Tree[L, S]) atNode(n treeNode[L, S], index int) L {
	for {
		switch node := n.(type) {
		case *leafNode[L, S]:
			assert(index == 0, "atNode index routing ended inside a leaf")
			return node.leaf
		case *innerNode[L, S]:
			slot, local := t.locateChild(node, index)
			n, index = node.children[slot], local
		default:
			panic("unknown tree node type")
		}
	}
}
