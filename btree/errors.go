package btree

import "errors"

var (
	// ErrInvalidConfig signals an invalid tree configuration.
	ErrInvalidConfig = errors.New("btree: invalid configuration")
	// ErrIndexOutOfBounds signals an invalid positional index or range.
	ErrIndexOutOfBounds = errors.New("btree: index out of bounds")
	// ErrInvalidMetric signals a missing metric.
	ErrInvalidMetric = errors.New("btree: invalid metric")
	// ErrInvariantViolated is reported by Check for structurally broken trees.
	ErrInvariantViolated = errors.New("btree: invariant violated")
)
