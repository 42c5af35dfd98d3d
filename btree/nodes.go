package btree

// treeNode is either a *leafNode or an *innerNode. Nodes are never modified
// once they are reachable from a published tree; edits copy the path from the
// root to the edited leaf and share everything else.
type treeNode[L SummarizedItem[S], S any] interface {
	isLeaf() bool
	Summary() S
	leafCount() int
}

type leafNode[L SummarizedItem[S], S any] struct {
	summary S
	leaf    L
}

func (l *leafNode[L, S]) isLeaf() bool   { return true }
func (l *leafNode[L, S]) Summary() S     { return l.summary }
func (l *leafNode[L, S]) leafCount() int { return 1 }

type innerNode[L SummarizedItem[S], S any] struct {
	summary  S
	count    int // number of leaves below this node
	children []treeNode[L, S]
}

func (n *innerNode[L, S]) isLeaf() bool   { return false }
func (n *innerNode[L, S]) Summary() S     { return n.summary }
func (n *innerNode[L, S]) leafCount() int { return n.count }
