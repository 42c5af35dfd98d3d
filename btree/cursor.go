package btree

import "fmt"

// Cursor seeks leaves in a tree along a metric.
type Cursor[L SummarizedItem[S], S any] struct {
	tree   *Tree[L, S]
	metric Metric[L, S]
}

// NewCursor creates a cursor for a tree and a metric.
func NewCursor[L SummarizedItem[S], S any](tree *Tree[L, S], metric Metric[L, S]) (*Cursor[L, S], error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: tree is nil", ErrInvalidConfig)
	}
	if metric == nil {
		return nil, fmt.Errorf("%w: metric is nil", ErrInvalidMetric)
	}
	return &Cursor[L, S]{
		tree:   tree,
		metric: metric,
	}, nil
}

// Seek finds the first leaf index where the accumulated measure reaches
// target. acc is the measure accumulated before that leaf.
//
// A target of 0 yields (0, 0). If the whole tree measures less than target,
// Seek returns (Len(), total measure).
func (c *Cursor[L, S]) Seek(target uint64) (leafIndex int, acc uint64, err error) {
	if c == nil || c.tree == nil || c.metric == nil {
		return 0, 0, fmt.Errorf("%w: cursor not initialized", ErrInvalidMetric)
	}
	if target == 0 || c.tree.root == nil {
		return 0, 0, nil
	}
	if total := c.metric.Measure(c.tree.root.Summary()); total < target {
		return c.tree.Len(), total, nil
	}
	n := c.tree.root
	for {
		inner, ok := n.(*innerNode[L, S])
		if !ok {
			return leafIndex, acc, nil
		}
		descended := false
		for _, child := range inner.children {
			m := c.metric.Measure(child.Summary())
			if acc+m >= target {
				n, descended = child, true
				break
			}
			acc += m
			leafIndex += child.leafCount()
		}
		assert(descended, "cursor seek: cached summaries inconsistent")
	}
}
