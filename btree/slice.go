package btree

import "fmt"

// SliceKind tells the shape of a TreeSlice.
type SliceKind uint8

const (
	// EmptySlice covers no leaves.
	EmptySlice SliceKind = iota
	// SingleSlice lies within a single leaf.
	SingleSlice
	// MultiSlice spans a start leaf, shared whole subtrees and an end leaf.
	MultiSlice
)

func (k SliceKind) String() string {
	switch k {
	case EmptySlice:
		return "Empty"
	case SingleSlice:
		return "Single"
	case MultiSlice:
		return "Multi"
	}
	return fmt.Sprintf("SliceKind(%d)", uint8(k))
}

// TreeSlice is a read-only view of a contiguous range of a tree.
//
// Boundary leaves may be cut to the range; every subtree fully inside the
// range is shared with the tree, never copied. The summary of a slice is the
// sum of the summaries of start, internals and end.
type TreeSlice[L SummarizedItem[S], S any] struct {
	cfg       Config[S]
	kind      SliceKind
	start     *leafNode[L, S]
	end       *leafNode[L, S]
	internals []treeNode[L, S]
	summary   S
	count     int
}

// Kind returns the shape of the slice.
func (s TreeSlice[L, S]) Kind() SliceKind { return s.kind }

// IsEmpty reports whether the slice covers no leaves.
func (s TreeSlice[L, S]) IsEmpty() bool { return s.kind == EmptySlice }

// Summary returns the aggregate summary of the slice.
func (s TreeSlice[L, S]) Summary() S { return s.summary }

// LeafCount returns the number of (possibly partial) leaves in the slice.
func (s TreeSlice[L, S]) LeafCount() int { return s.count }

// Internals returns the number of shared whole nodes between start and end.
func (s TreeSlice[L, S]) Internals() int { return len(s.internals) }

// Start returns the first leaf of the slice. For a single-leaf slice this
// is the only leaf.
func (s TreeSlice[L, S]) Start() (Part[L, S], bool) {
	if s.start == nil {
		return Part[L, S]{}, false
	}
	return Part[L, S]{Leaf: s.start.leaf, Summary: s.start.summary}, true
}

// End returns the last leaf of a MultiSlice.
func (s TreeSlice[L, S]) End() (Part[L, S], bool) {
	if s.end == nil {
		return Part[L, S]{}, false
	}
	return Part[L, S]{Leaf: s.end.leaf, Summary: s.end.summary}, true
}

// Leaves returns an iterator over the leaves of the slice.
func (s TreeSlice[L, S]) Leaves() *Leaves[L, S] {
	return s.forest().leaves()
}

// Units returns an iterator over the units of m within the slice.
//
// Iterating cuts leaves with m.SplitLeft after every unit, so every unit
// boundary of m must be a valid cut for the leaves. If it is not (e.g. a byte
// metric over UTF-8 chunks holding multi-byte runes), Next and Prev panic.
func (s TreeSlice[L, S]) Units(m Metric[L, S]) (*Units[L, S], error) {
	return s.forest().units(m)
}

// Slice returns the sub-range [start,end) of the slice, addressed in units
// of m relative to the start of the slice.
func (s TreeSlice[L, S]) Slice(m Metric[L, S], start, end uint64) (TreeSlice[L, S], error) {
	return s.forest().slice(m, start, end)
}

func (s TreeSlice[L, S]) forest() forest[L, S] {
	var roots []treeNode[L, S]
	switch s.kind {
	case SingleSlice:
		roots = []treeNode[L, S]{s.start}
	case MultiSlice:
		roots = make([]treeNode[L, S], 0, len(s.internals)+2)
		roots = append(roots, s.start)
		roots = append(roots, s.internals...)
		roots = append(roots, s.end)
	}
	return forest[L, S]{cfg: s.cfg, roots: roots, summary: s.summary, count: s.count}
}

// Slice returns the range [start,end) of the tree, addressed in units of m.
// Position p denotes the point just after the p-th unit.
func (t *Tree[L, S]) Slice(m Metric[L, S], start, end uint64) (TreeSlice[L, S], error) {
	return t.forest().slice(m, start, end)
}

// Full returns the whole tree as a slice.
func (t *Tree[L, S]) Full() TreeSlice[L, S] {
	f := t.forest()
	return assemble(f.cfg, f.roots)
}

// Leaves returns an iterator over the leaves of the tree.
func (t *Tree[L, S]) Leaves() *Leaves[L, S] {
	return t.forest().leaves()
}

// Units returns an iterator over the units of m in the tree.
//
// As with TreeSlice.Units, every unit boundary of m must be a valid leaf cut,
// otherwise Next and Prev panic.
func (t *Tree[L, S]) Units(m Metric[L, S]) (*Units[L, S], error) {
	return t.forest().units(m)
}

func (t *Tree[L, S]) forest() forest[L, S] {
	f := forest[L, S]{summary: t.Summary()}
	if t == nil {
		return f
	}
	f.cfg = t.cfg
	if t.root != nil {
		f.roots = []treeNode[L, S]{t.root}
		f.count = t.root.leafCount()
	}
	return f
}

// forest is an ordered sequence of nodes, either the root of a tree or the
// parts of a slice.
type forest[L SummarizedItem[S], S any] struct {
	cfg     Config[S]
	roots   []treeNode[L, S]
	summary S
	count   int
}

func (f forest[L, S]) slice(m Metric[L, S], from, to uint64) (TreeSlice[L, S], error) {
	if m == nil {
		return TreeSlice[L, S]{}, fmt.Errorf("%w: metric is nil", ErrInvalidMetric)
	}
	total := m.Measure(f.summary)
	if from > to || to > total {
		return TreeSlice[L, S]{}, fmt.Errorf("%w: range [%d,%d) of %d units", ErrIndexOutOfBounds, from, to, total)
	}
	if from == to {
		return assemble[L, S](f.cfg, nil), nil
	}
	sl := slicer[L, S]{metric: m, from: from, to: to}
	var acc uint64
	for _, root := range f.roots {
		if acc >= to {
			break
		}
		acc = sl.collect(root, acc)
	}
	return assemble(f.cfg, sl.pieces), nil
}

// slicer collects the nodes covering [from,to) in units of metric. Nodes
// fully inside the range are taken whole, boundary leaves are cut.
type slicer[L SummarizedItem[S], S any] struct {
	metric   Metric[L, S]
	from, to uint64
	pieces   []treeNode[L, S]
}

// collect visits n, which starts at measure acc, and returns the measure
// after n.
func (sl *slicer[L, S]) collect(n treeNode[L, S], acc uint64) uint64 {
	m := sl.metric.Measure(n.Summary())
	switch {
	case acc >= sl.to || acc+m < sl.from:
		return acc + m
	case acc >= sl.from && acc+m < sl.to:
		sl.pieces = append(sl.pieces, n)
		return acc + m
	}
	switch node := n.(type) {
	case *innerNode[L, S]:
		a := acc
		for _, child := range node.children {
			if a >= sl.to {
				break
			}
			a = sl.collect(child, a)
		}
	case *leafNode[L, S]:
		sl.cutLeaf(node, acc, m)
	default:
		panic("unknown tree node type")
	}
	return acc + m
}

func (sl *slicer[L, S]) cutLeaf(node *leafNode[L, S], acc, m uint64) {
	part, lo := node, uint64(0)
	if sl.from > acc {
		lo = sl.from - acc
		_, right := splitPart(sl.metric, part, lo)
		if right == nil {
			return
		}
		part = right
	}
	if sl.to <= acc+m {
		units := sl.to - acc - lo
		if units == 0 {
			return
		}
		part, _ = splitPart(sl.metric, part, units)
	}
	sl.pieces = append(sl.pieces, part)
}

// assemble turns an ordered run of nodes into a slice, pulling the first and
// the last leaf out of their subtrees. Siblings met on the way down stay
// shared.
func assemble[L SummarizedItem[S], S any](cfg Config[S], pieces []treeNode[L, S]) TreeSlice[L, S] {
	s := TreeSlice[L, S]{cfg: cfg}
	if cfg.Monoid != nil {
		s.summary = cfg.Monoid.Zero()
	}
	if len(pieces) == 0 {
		return s
	}
	for _, p := range pieces {
		s.summary = cfg.Monoid.Add(s.summary, p.Summary())
		s.count += p.leafCount()
	}
	start, rest := peelFirst(pieces)
	s.start = start
	if len(rest) == 0 {
		s.kind = SingleSlice
		return s
	}
	s.end, s.internals = peelLast(rest)
	s.kind = MultiSlice
	return s
}

func peelFirst[L SummarizedItem[S], S any](pieces []treeNode[L, S]) (*leafNode[L, S], []treeNode[L, S]) {
	var levels [][]treeNode[L, S]
	n := pieces[0]
	for {
		inner, ok := n.(*innerNode[L, S])
		if !ok {
			break
		}
		levels = append(levels, inner.children[1:])
		n = inner.children[0]
	}
	var rest []treeNode[L, S]
	for i := len(levels) - 1; i >= 0; i-- {
		rest = append(rest, levels[i]...)
	}
	rest = append(rest, pieces[1:]...)
	return n.(*leafNode[L, S]), rest
}

func peelLast[L SummarizedItem[S], S any](rest []treeNode[L, S]) (*leafNode[L, S], []treeNode[L, S]) {
	internals := append([]treeNode[L, S](nil), rest[:len(rest)-1]...)
	n := rest[len(rest)-1]
	for {
		inner, ok := n.(*innerNode[L, S])
		if !ok {
			break
		}
		last := len(inner.children) - 1
		internals = append(internals, inner.children[:last]...)
		n = inner.children[last]
	}
	return n.(*leafNode[L, S]), internals
}
