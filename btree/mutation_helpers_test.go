package btree

import (
	"strings"
	"testing"
)

func makeTextTree(t *testing.T) *Tree[TextChunk, TextSummary] {
	t.Helper()
	return makeTextTreeDegree(t, 0)
}

func makeTextTreeDegree(t *testing.T, degree int) *Tree[TextChunk, TextSummary] {
	t.Helper()
	tree, err := New[TextChunk, TextSummary](Config[TextSummary]{
		Monoid: TextMonoid{},
		Degree: degree,
	})
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	return tree
}

func chunks(strs ...string) []TextChunk {
	out := make([]TextChunk, 0, len(strs))
	for _, s := range strs {
		out = append(out, FromString(s))
	}
	return out
}

func collectTextItems(tree *Tree[TextChunk, TextSummary]) []string {
	var out []string
	tree.ForEachLeaf(func(leaf TextChunk) bool {
		out = append(out, string(leaf))
		return true
	})
	return out
}

func textOf(tree *Tree[TextChunk, TextSummary]) string {
	return strings.Join(collectTextItems(tree), "")
}

func TestRecomputeInnerSummary(t *testing.T) {
	tree := makeTextTree(t)
	l1 := makeLeaf[TextChunk, TextSummary](FromString("ab"))
	l2 := makeLeaf[TextChunk, TextSummary](FromString("c\n"))
	inner := tree.makeInternal(l1, l2)
	if inner.summary.Bytes != 4 || inner.summary.Lines != 1 || inner.count != 2 {
		t.Fatalf("unexpected initial inner summary: %+v, count %d", inner.summary, inner.count)
	}
	inner.children = append(inner.children, makeLeaf[TextChunk, TextSummary](FromString("f\n")))
	tree.recomputeInnerSummary(inner)
	if inner.summary.Bytes != 6 || inner.summary.Lines != 2 || inner.count != 3 {
		t.Fatalf("unexpected recomputed inner summary: %+v, count %d", inner.summary, inner.count)
	}
}

func TestInsertRemoveSliceHelpers(t *testing.T) {
	src := []int{1, 2, 3}
	got := insertAt(src, 1, 9, 8)
	want := []int{1, 9, 8, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("insertAt length mismatch: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("insertAt mismatch at %d: %v", i, got)
		}
	}
	if src[1] != 2 {
		t.Fatalf("insertAt modified its source: %v", src)
	}
	got = removeRange(got, 1, 3)
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("removeRange mismatch: %v", got)
	}
}

func TestInsertRemoveChildHelpers(t *testing.T) {
	tree := makeTextTree(t)
	a := makeLeaf[TextChunk, TextSummary](FromString("a"))
	b := makeLeaf[TextChunk, TextSummary](FromString("bb"))
	c := makeLeaf[TextChunk, TextSummary](FromString("ccc"))
	inner := tree.makeInternal(a, c)
	tree.insertChildAt(inner, 1, b)
	if len(inner.children) != 3 || inner.summary.Bytes != 6 || inner.count != 3 {
		t.Fatalf("unexpected inner after insertChildAt: %d children, %+v", len(inner.children), inner.summary)
	}
	tree.removeChildAt(inner, 0)
	if len(inner.children) != 2 || inner.summary.Bytes != 5 || inner.count != 2 {
		t.Fatalf("unexpected inner after removeChildAt: %d children, %+v", len(inner.children), inner.summary)
	}
}

func TestCloneInnerSharesChildren(t *testing.T) {
	tree := makeTextTree(t)
	a := makeLeaf[TextChunk, TextSummary](FromString("a"))
	b := makeLeaf[TextChunk, TextSummary](FromString("b"))
	inner := tree.makeInternal(a, b)
	cloned := tree.cloneInner(inner)
	if cloned == inner {
		t.Fatalf("cloneInner returned same pointer")
	}
	if cloned.children[0] != inner.children[0] || cloned.children[1] != inner.children[1] {
		t.Fatalf("cloneInner did not share children")
	}
	tree.removeChildAt(cloned, 0)
	if len(inner.children) != 2 {
		t.Fatalf("original inner changed after clone mutation")
	}
}

func TestSplitInnerBalancesChildren(t *testing.T) {
	tree := makeTextTreeDegree(t, 4)
	var children []treeNode[TextChunk, TextSummary]
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		children = append(children, makeLeaf[TextChunk, TextSummary](FromString(s)))
	}
	inner := tree.makeInternal(children...)
	if !tree.innerOverflow(inner) {
		t.Fatalf("expected overflow with 5 children at degree 4")
	}
	left, right := tree.splitInner(inner)
	if right == nil {
		t.Fatalf("expected split to promote a sibling")
	}
	if len(left.children) != 2 || len(right.children) != 3 {
		t.Fatalf("unexpected split sizes %d/%d", len(left.children), len(right.children))
	}
	if left.summary.Bytes+right.summary.Bytes != 5 {
		t.Fatalf("split lost bytes: %+v %+v", left.summary, right.summary)
	}
}
