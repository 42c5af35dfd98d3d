package btree

import "fmt"

const (
	// DefaultDegree is the max fanout used when Config.Degree is left zero.
	DefaultDegree = 12
	// MinDegree is the smallest fanout a tree may be configured with.
	MinDegree = 2
)

// SummarizedItem ties a leaf item to its summary type at compile time.
type SummarizedItem[S any] interface {
	Summary() S
}

// SummaryMonoid defines how summaries are aggregated up the tree.
//
// For summaries s, t, u, Add should be associative:
//
//	Add(Add(s, t), u) == Add(s, Add(t, u))
//
// and Zero should be the neutral element:
//
//	Add(Zero(), s) == s == Add(s, Zero())
type SummaryMonoid[S any] interface {
	Zero() S
	Add(left, right S) S
}

// Config configures a rope-focused B+ sum-tree.
type Config[S any] struct {
	// Monoid aggregates summaries up the tree.
	Monoid SummaryMonoid[S]
	// Degree is the maximum number of children of an inner node. Inner nodes
	// other than the root hold at least ⌈Degree/2⌉ children.
	// Zero selects DefaultDegree.
	Degree int
}

func (cfg Config[S]) normalized() Config[S] {
	if cfg.Degree == 0 {
		cfg.Degree = DefaultDegree
	}
	return cfg
}

func (cfg Config[S]) validate() error {
	cfg = cfg.normalized()
	if cfg.Monoid == nil {
		return fmt.Errorf("%w: monoid is required", ErrInvalidConfig)
	}
	if cfg.Degree < MinDegree {
		return fmt.Errorf("%w: degree %d is less than %d", ErrInvalidConfig, cfg.Degree, MinDegree)
	}
	return nil
}

// minFill is the lower occupancy bound for non-root inner nodes.
func (cfg Config[S]) minFill() int {
	return (cfg.Degree + 1) / 2
}
