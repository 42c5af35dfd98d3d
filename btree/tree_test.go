package btree

import (
	"errors"
	"strconv"
	"testing"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New[TextChunk, TextSummary](Config[TextSummary]{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for missing monoid, got %v", err)
	}
	_, err = New[TextChunk, TextSummary](Config[TextSummary]{Monoid: TextMonoid{}, Degree: 1})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for degree 1, got %v", err)
	}
}

func TestNewStoresNormalizedConfig(t *testing.T) {
	tree := makeTextTree(t)
	cfg := tree.Config()
	if cfg.Monoid == nil {
		t.Fatalf("expected monoid to be set in normalized config")
	}
	if cfg.Degree != DefaultDegree {
		t.Fatalf("expected default degree %d, got %d", DefaultDegree, cfg.Degree)
	}
}

func TestCheckEmptyTree(t *testing.T) {
	tree := makeTextTree(t)
	if err := tree.Check(); err != nil {
		t.Fatalf("expected empty tree to be valid, got %v", err)
	}
	if tree.Len() != 0 || tree.Height() != 0 || !tree.IsEmpty() {
		t.Fatalf("unexpected empty tree state len=%d height=%d", tree.Len(), tree.Height())
	}
	if s := tree.Summary(); s != (TextSummary{}) {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestCheckDetectsStaleSummary(t *testing.T) {
	tree, err := FromLeaves(Config[TextSummary]{Monoid: TextMonoid{}, Degree: 2}, chunks("ab", "cd", "ef")...)
	if err != nil {
		t.Fatalf("FromLeaves failed: %v", err)
	}
	tree.root.(*innerNode[TextChunk, TextSummary]).summary.Bytes++
	if err := tree.Check(); !errors.Is(err, ErrInvariantViolated) {
		t.Fatalf("expected ErrInvariantViolated, got %v", err)
	}
}

func TestFromLeavesSummaryAndBalance(t *testing.T) {
	for _, degree := range []int{2, 3, 4, 5, 12} {
		for n := 0; n <= 150; n++ {
			leaves := make([]TextChunk, n)
			var wantBytes, wantLines uint64
			for i := range leaves {
				s := strconv.Itoa(i)
				if i%3 == 0 {
					s += "\n"
					wantLines++
				}
				leaves[i] = FromString(s)
				wantBytes += uint64(len(s))
			}
			tree, err := FromLeaves(Config[TextSummary]{Monoid: TextMonoid{}, Degree: degree}, leaves...)
			if err != nil {
				t.Fatalf("FromLeaves(degree=%d, n=%d) failed: %v", degree, n, err)
			}
			if err := tree.Check(); err != nil {
				t.Fatalf("degree=%d n=%d: %v", degree, n, err)
			}
			if tree.Len() != n {
				t.Fatalf("degree=%d n=%d: Len()=%d", degree, n, tree.Len())
			}
			s := tree.Summary()
			if s.Bytes != wantBytes || s.Lines != wantLines {
				t.Fatalf("degree=%d n=%d: summary %+v, want bytes=%d lines=%d", degree, n, s, wantBytes, wantLines)
			}
		}
	}
}

func TestCollectBuildsFromSequence(t *testing.T) {
	seq := func(yield func(TextChunk) bool) {
		for _, s := range []string{"a", "b", "c"} {
			if !yield(FromString(s)) {
				return
			}
		}
	}
	tree, err := Collect(Config[TextSummary]{Monoid: TextMonoid{}}, seq)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if got := textOf(tree); got != "abc" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestAtReturnsLeaves(t *testing.T) {
	tree, err := FromLeaves(Config[TextSummary]{Monoid: TextMonoid{}, Degree: 3}, chunks("a", "b", "c", "d", "e", "f", "g")...)
	if err != nil {
		t.Fatalf("FromLeaves failed: %v", err)
	}
	for i, want := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		leaf, err := tree.At(i)
		if err != nil || string(leaf) != want {
			t.Fatalf("At(%d) = %q, %v; want %q", i, leaf, err, want)
		}
	}
	if _, err := tree.At(7); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Fatalf("expected ErrIndexOutOfBounds, got %v", err)
	}
}

func TestInsertAtNoOpReturnsSameTree(t *testing.T) {
	tree := makeTextTree(t)
	got, err := tree.InsertAt(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tree {
		t.Fatalf("expected no-op insert to return the receiver")
	}
	if _, err := tree.InsertAt(1, FromString("x")); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Fatalf("expected ErrIndexOutOfBounds, got %v", err)
	}
}

func TestInsertAtBuildsTreeAndPreservesOriginal(t *testing.T) {
	tree := makeTextTreeDegree(t, 3)
	var err error
	tree, err = tree.InsertAt(0, chunks("b", "d")...)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	before := tree
	after, err := tree.InsertAt(0, FromString("a"))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	after, err = after.InsertAt(2, FromString("c"))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if got := textOf(before); got != "bd" {
		t.Fatalf("original tree changed: %q", got)
	}
	if got := textOf(after); got != "abcd" {
		t.Fatalf("unexpected content %q", got)
	}
	if err := after.Check(); err != nil {
		t.Fatalf("invalid tree: %v", err)
	}
}

func TestInsertAtRootSplitRaisesHeight(t *testing.T) {
	tree := makeTextTreeDegree(t, 3)
	heights := []int{}
	for i := range 10 {
		var err error
		tree, err = tree.InsertAt(tree.Len(), FromString(strconv.Itoa(i)))
		if err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
		if err := tree.Check(); err != nil {
			t.Fatalf("after insert %d: %v", i, err)
		}
		heights = append(heights, tree.Height())
	}
	if heights[0] != 1 || heights[1] != 2 || heights[3] != 3 {
		t.Fatalf("unexpected height progression %v", heights)
	}
	if got := textOf(tree); got != "0123456789" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestDeleteAtKeepsOrderAndPersistence(t *testing.T) {
	tree, err := FromLeaves(Config[TextSummary]{Monoid: TextMonoid{}, Degree: 3}, chunks("a", "b", "c", "d", "e", "f")...)
	if err != nil {
		t.Fatalf("FromLeaves failed: %v", err)
	}
	deleted, err := tree.DeleteAt(2)
	if err != nil {
		t.Fatalf("DeleteAt failed: %v", err)
	}
	if got := textOf(deleted); got != "abdef" {
		t.Fatalf("unexpected content %q", got)
	}
	if got := textOf(tree); got != "abcdef" {
		t.Fatalf("original tree changed: %q", got)
	}
	if err := deleted.Check(); err != nil {
		t.Fatalf("invalid tree: %v", err)
	}
}

func TestDeleteAtBounds(t *testing.T) {
	tree := makeTextTree(t)
	if _, err := tree.DeleteAt(0); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Fatalf("expected ErrIndexOutOfBounds on empty tree, got %v", err)
	}
	tree, _ = tree.InsertAt(0, FromString("x"))
	if _, err := tree.DeleteAt(-1); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Fatalf("expected ErrIndexOutOfBounds, got %v", err)
	}
	if _, err := tree.DeleteAt(1); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Fatalf("expected ErrIndexOutOfBounds, got %v", err)
	}
}

func TestDeleteAtBorrowMergeAndRootCollapse(t *testing.T) {
	tree, err := FromLeaves(Config[TextSummary]{Monoid: TextMonoid{}, Degree: 4}, chunks("a", "b", "c", "d", "e")...)
	if err != nil {
		t.Fatalf("FromLeaves failed: %v", err)
	}
	root := tree.root.(*innerNode[TextChunk, TextSummary])
	if len(root.children) != 2 || root.children[0].leafCount() != 3 || root.children[1].leafCount() != 2 {
		t.Fatalf("unexpected initial shape")
	}
	// second child underflows and borrows from its left sibling
	tree, err = tree.DeleteAt(3)
	if err != nil {
		t.Fatalf("DeleteAt failed: %v", err)
	}
	root = tree.root.(*innerNode[TextChunk, TextSummary])
	if len(root.children) != 2 || root.children[0].leafCount() != 2 || root.children[1].leafCount() != 2 {
		t.Fatalf("expected borrow-left to yield 2/2")
	}
	if got := textOf(tree); got != "abce" {
		t.Fatalf("unexpected content %q", got)
	}
	// now the left sibling cannot lend; the children merge and the root collapses
	tree, err = tree.DeleteAt(3)
	if err != nil {
		t.Fatalf("DeleteAt failed: %v", err)
	}
	if tree.Height() != 2 || tree.Len() != 3 {
		t.Fatalf("expected collapsed root, height=%d len=%d", tree.Height(), tree.Len())
	}
	if got := textOf(tree); got != "abc" {
		t.Fatalf("unexpected content %q", got)
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("invalid tree: %v", err)
	}
}

func TestDeleteAtBorrowRight(t *testing.T) {
	leaves := make([]TextChunk, 16)
	for i := range leaves {
		leaves[i] = FromString(string(rune('a' + i)))
	}
	tree, err := FromLeaves(Config[TextSummary]{Monoid: TextMonoid{}, Degree: 4}, leaves...)
	if err != nil {
		t.Fatalf("FromLeaves failed: %v", err)
	}
	if tree.Height() != 3 {
		t.Fatalf("expected height 3, got %d", tree.Height())
	}
	for range 3 {
		if tree, err = tree.DeleteAt(0); err != nil {
			t.Fatalf("DeleteAt failed: %v", err)
		}
		if err := tree.Check(); err != nil {
			t.Fatalf("invalid tree: %v", err)
		}
	}
	if got := textOf(tree); got != "defghijklmnop" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestDeleteAtToEmptyTreeNormalizesRoot(t *testing.T) {
	tree, err := FromLeaves(Config[TextSummary]{Monoid: TextMonoid{}, Degree: 2}, chunks("a", "b", "c", "d", "e")...)
	if err != nil {
		t.Fatalf("FromLeaves failed: %v", err)
	}
	for tree.Len() > 0 {
		if tree, err = tree.DeleteAt(tree.Len() / 2); err != nil {
			t.Fatalf("DeleteAt failed: %v", err)
		}
		if err := tree.Check(); err != nil {
			t.Fatalf("invalid tree: %v", err)
		}
	}
	if !tree.IsEmpty() || tree.Height() != 0 {
		t.Fatalf("expected empty tree, height=%d", tree.Height())
	}
}

func TestDeleteRangeKeepsOrderAndPersistence(t *testing.T) {
	tree, err := FromLeaves(Config[TextSummary]{Monoid: TextMonoid{}, Degree: 3}, chunks("a", "b", "c", "d", "e", "f", "g")...)
	if err != nil {
		t.Fatalf("FromLeaves failed: %v", err)
	}
	got, err := tree.DeleteRange(1, 4)
	if err != nil {
		t.Fatalf("DeleteRange failed: %v", err)
	}
	if s := textOf(got); s != "afg" {
		t.Fatalf("unexpected content %q", s)
	}
	if s := textOf(tree); s != "abcdefg" {
		t.Fatalf("original tree changed: %q", s)
	}
	if same, _ := tree.DeleteRange(3, 0); same != tree {
		t.Fatalf("expected empty range delete to return the receiver")
	}
	if _, err := tree.DeleteRange(5, 3); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Fatalf("expected ErrIndexOutOfBounds, got %v", err)
	}
	empty, err := tree.DeleteRange(0, tree.Len())
	if err != nil || !empty.IsEmpty() {
		t.Fatalf("expected whole range delete to empty the tree, err=%v", err)
	}
}

func TestReplaceAtSharesUntouchedSubtrees(t *testing.T) {
	tree, err := FromLeaves(Config[TextSummary]{Monoid: TextMonoid{}, Degree: 3}, chunks("a", "b", "c", "d", "e", "f", "g", "h", "i")...)
	if err != nil {
		t.Fatalf("FromLeaves failed: %v", err)
	}
	replaced, err := tree.ReplaceAt(1, FromString("B\n"))
	if err != nil {
		t.Fatalf("ReplaceAt failed: %v", err)
	}
	if s := textOf(replaced); s != "aB\ncdefghi" {
		t.Fatalf("unexpected content %q", s)
	}
	if replaced.Summary().Lines != 1 || replaced.Summary().Bytes != 10 {
		t.Fatalf("unexpected summary %+v", replaced.Summary())
	}
	oldRoot := tree.root.(*innerNode[TextChunk, TextSummary])
	newRoot := replaced.root.(*innerNode[TextChunk, TextSummary])
	if oldRoot == newRoot || oldRoot.children[0] == newRoot.children[0] {
		t.Fatalf("expected path to the replaced leaf to be copied")
	}
	if oldRoot.children[1] != newRoot.children[1] || oldRoot.children[2] != newRoot.children[2] {
		t.Fatalf("expected untouched subtrees to be shared")
	}
	if s := textOf(tree); s != "abcdefghi" {
		t.Fatalf("original tree changed: %q", s)
	}
}

func TestSpliceReplacesRange(t *testing.T) {
	tree, err := FromLeaves(Config[TextSummary]{Monoid: TextMonoid{}, Degree: 3}, chunks("a", "b", "c", "d")...)
	if err != nil {
		t.Fatalf("FromLeaves failed: %v", err)
	}
	spliced, err := tree.Splice(1, 2, chunks("x", "y", "z")...)
	if err != nil {
		t.Fatalf("Splice failed: %v", err)
	}
	if s := textOf(spliced); s != "axyzd" {
		t.Fatalf("unexpected content %q", s)
	}
	if err := spliced.Check(); err != nil {
		t.Fatalf("invalid tree: %v", err)
	}
}
