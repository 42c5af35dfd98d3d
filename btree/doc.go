/*
Package btree implements the persistent B+ sum-tree underneath a rope.

The tree is not a general map/set container. It stores an ordered sequence
of leaves, each summarized at the type level (`leaf.Summary()`), and caches
the monoidal sum of the summaries plus the leaf count in every inner node.

Trees are persistent. Every edit copies the path from the root to the
edited leaf and shares all other subtrees with the previous version, so
older snapshots stay valid and may be read concurrently while a single
writer derives new ones.

Overview:
  - bulk construction from leaves (`FromLeaves`, `Collect`), balanced in
    one bottom-up pass,
  - path-copy insert, delete, replace and splice with split propagation and
    borrow/merge rebalancing; nodes hold between ⌈Degree/2⌉ and Degree
    children,
  - metrics (`Metric`) measuring summaries in units and cutting leaves after
    a number of units,
  - metric-guided descent (`Cursor`),
  - ranged views (`TreeSlice`) sharing all subtrees fully inside the range,
  - double-ended, fused iterators over leaves (`Leaves`) and metric units
    (`Units`).

Nodes carry no parent pointers, as a node may be part of many trees. All
traversals keep an explicit stack of (ancestor, visited child) frames.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package btree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'gaprope'
func tracer() tracing.Trace {
	return tracing.Select("gaprope")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
