/*
Package textfile provides API helpers to load UTF-8 text files as ropes.

Files are read fragment by fragment by a background goroutine, which
broadcasts the fragments to the collecting rope builder. Load itself is
synchronous.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package textfile

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'gaprope'
func tracer() tracing.Trace {
	return tracing.Select("gaprope")
}
