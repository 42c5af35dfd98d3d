/*
Package gaprope implements text ropes with gap-buffer leaves.

A Rope organizes text in a persistent, balanced B+ tree. Leaves hold small
gap buffers (package chunk), inner nodes cache the byte, character and line
counts of their subtrees. This makes positional edits, line addressing and
slicing logarithmic in the size of the text, while every edit returns a new
rope and leaves the old one intact.

From Wikipedia:
In computer programming, a rope, or cord, is a data structure composed of
smaller strings that is used to efficiently store and manipulate a very long string.
For example, a text editing program may use a rope to represent the text being edited,
so that operations such as insertion, deletion, and random access can be
done efficiently. […] In summary, ropes are preferable when the data is large
and modified often.

Ropes are immutable values and may be shared freely between goroutines.
A Document holds the current rope of a single writer and broadcasts each new
snapshot to its subscribers.

Ropes focus on large amounts of text. When dealing with shorter strings which do
not form an overall text, ropes may add a performance penalty.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–26, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

*/
package gaprope

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// tracer writes to trace with key 'gaprope'
func tracer() tracing.Trace {
	return tracing.Select("gaprope")
}

// RopeError is an error type for the gaprope module
type RopeError string

func (e RopeError) Error() string {
	return string(e)
}

// ErrRopeCompleted signals that a rope builder has already completed a rope and
// it's illegal to further add text.
const ErrRopeCompleted = RopeError("forbidden to add text; rope has been completed")

// ErrIndexOutOfBounds is flagged whenever a rope position is
// greater than the length of the rope.
const ErrIndexOutOfBounds = RopeError("index out of bounds")

// ErrNotCharBoundary is flagged whenever a byte position would split a
// multi-byte UTF-8 sequence.
const ErrNotCharBoundary = RopeError("position is not on a UTF-8 character boundary")

// ErrInvalidUTF8 is flagged for text which is not valid UTF-8.
const ErrInvalidUTF8 = RopeError("invalid UTF-8 text")

// ErrIllegalArguments is flagged whenever function parameters are invalid.
const ErrIllegalArguments = RopeError("illegal arguments")

// ErrDocumentClosed is flagged for edits and subscriptions on a closed document.
const ErrDocumentClosed = RopeError("document has been closed")

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
