package btree

// frame is one level of an explicit ancestor stack. idx is the child visited
// last.
type frame[L SummarizedItem[S], S any] struct {
	node *innerNode[L, S]
	idx  int
}

// walker traverses a sequence of root nodes in order (or in reverse order),
// descending on request. Nodes are shared between snapshots and carry no
// parent pointers, so the path back up is kept on an explicit stack.
type walker[L SummarizedItem[S], S any] struct {
	roots    []treeNode[L, S]
	next     int // next root to visit
	stack    []frame[L, S]
	backward bool
}

func newWalker[L SummarizedItem[S], S any](roots []treeNode[L, S], backward bool) walker[L, S] {
	w := walker[L, S]{roots: roots, backward: backward}
	if backward {
		w.next = len(roots) - 1
	}
	return w
}

// advance returns the next sibling of the node returned last, climbing up
// through exhausted ancestors, or the next root once the stack is empty.
func (w *walker[L, S]) advance() (treeNode[L, S], bool) {
	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		if w.backward {
			top.idx--
		} else {
			top.idx++
		}
		if top.idx >= 0 && top.idx < len(top.node.children) {
			return top.node.children[top.idx], true
		}
		w.stack = w.stack[:len(w.stack)-1]
	}
	if w.next < 0 || w.next >= len(w.roots) {
		return nil, false
	}
	n := w.roots[w.next]
	if w.backward {
		w.next--
	} else {
		w.next++
	}
	return n, true
}

// descend makes the children of inner the next nodes returned by advance.
func (w *walker[L, S]) descend(inner *innerNode[L, S]) {
	idx := -1
	if w.backward {
		idx = len(inner.children)
	}
	w.stack = append(w.stack, frame[L, S]{node: inner, idx: idx})
}

// nextLeaf returns the next leaf node in walking direction.
func (w *walker[L, S]) nextLeaf() (*leafNode[L, S], bool) {
	for {
		n, ok := w.advance()
		if !ok {
			return nil, false
		}
		switch node := n.(type) {
		case *leafNode[L, S]:
			return node, true
		case *innerNode[L, S]:
			w.descend(node)
		default:
			panic("unknown tree node type")
		}
	}
}

// lastLeaf walks down the rightmost spine of n.
func lastLeaf[L SummarizedItem[S], S any](n treeNode[L, S]) *leafNode[L, S] {
	for {
		switch node := n.(type) {
		case *leafNode[L, S]:
			return node
		case *innerNode[L, S]:
			n = node.children[len(node.children)-1]
		default:
			panic("unknown tree node type")
		}
	}
}
