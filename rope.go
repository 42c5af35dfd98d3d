package gaprope

/*
BSD 3-Clause License

Copyright (c) 2020–26, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"bytes"
	"iter"
	"unicode/utf8"

	"github.com/npillmayer/gaprope/btree"
	"github.com/npillmayer/gaprope/chunk"
)

type ropeTree = btree.Tree[chunk.ChunkSlice, chunk.Summary]

// Rope stores UTF-8 text in a persistent B+ tree of gap-buffer chunks.
//
// A rope created by
//
//	Rope{}
//
// is a valid object and behaves like the empty string.
//
// Methods that take or return positions use byte offsets. Editing methods
// return a new rope; the receiver stays unchanged and shares all untouched
// parts of its tree with the result.
//
//	Operation     |   Rope          |  String
//	--------------+-----------------+--------
//	Index         |   O(log n)      |   O(1)
//	Slice         |   O(log n)      |   O(1)
//	Line          |   O(log n)      |   O(n)
//	Iterate       |   O(n)          |   O(n)
//
//	Insert        |   O(log n)      |   O(n)
//	Delete        |   O(log n)      |   O(n)
type Rope struct {
	tree *ropeTree
}

// Option configures the tree of a rope.
type Option func(*btree.Config[chunk.Summary])

// WithDegree sets the maximum number of children of inner tree nodes.
func WithDegree(degree int) Option {
	return func(cfg *btree.Config[chunk.Summary]) {
		cfg.Degree = degree
	}
}

func treeConfig(opts []Option) btree.Config[chunk.Summary] {
	cfg := btree.Config[chunk.Summary]{Monoid: chunk.Monoid{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func newTree(cfg btree.Config[chunk.Summary], leaves ...chunk.ChunkSlice) (*ropeTree, error) {
	tree, err := btree.FromLeaves(cfg, leaves...)
	if err != nil {
		return nil, ErrIllegalArguments
	}
	return tree, nil
}

// FromString creates a rope from a Go string, which must be valid UTF-8.
func FromString(s string, opts ...Option) (Rope, error) {
	return FromBytes([]byte(s), opts...)
}

// FromBytes creates a rope from UTF-8 bytes. The bytes are copied.
func FromBytes(text []byte, opts ...Option) (Rope, error) {
	leaves, err := splitToChunks(text)
	if err != nil {
		return Rope{}, err
	}
	tree, err := newTree(treeConfig(opts), leaves...)
	if err != nil {
		return Rope{}, err
	}
	return Rope{tree: tree}, nil
}

// String returns the complete rope as a Go string. This may be an expensive operation,
// as it will allocate a buffer for all the bytes of the rope and collect all
// fragments to a single continuous string.
func (r Rope) String() string {
	if r.IsEmpty() {
		return ""
	}
	var bf bytes.Buffer
	bf.Grow(int(r.Len()))
	r.tree.ForEachLeaf(func(leaf chunk.ChunkSlice) bool {
		bf.Write(leaf.FirstSegment())
		bf.Write(leaf.SecondSegment())
		return true
	})
	return bf.String()
}

// IsEmpty reports whether the rope has no bytes.
func (r Rope) IsEmpty() bool {
	return r.tree == nil || r.tree.IsEmpty()
}

// Len returns the rope length in bytes.
func (r Rope) Len() uint64 {
	return r.Summary().Bytes
}

// Summary returns aggregate byte/char/line counts for the rope.
func (r Rope) Summary() chunk.Summary {
	if r.tree == nil {
		return chunk.Summary{}
	}
	return r.tree.Summary()
}

// CharCount returns the number of UTF-8 runes in the rope.
func (r Rope) CharCount() uint64 {
	return r.Summary().Chars
}

// LineCount returns the number of newline characters in the rope.
func (r Rope) LineCount() uint64 {
	return r.Summary().Lines
}

// Check validates the internal tree structure of the rope.
func (r Rope) Check() error {
	if r.tree == nil {
		return nil
	}
	return r.tree.Check()
}

// ByteAt returns the byte at position i.
func (r Rope) ByteAt(i uint64) (byte, error) {
	if i >= r.Len() {
		return 0, ErrIndexOutOfBounds
	}
	leaf, acc := r.leafAt(i + 1)
	return leaf.Byte(int(i - acc)), nil
}

// Chunks returns an iterator over the leaf chunks of the rope in order.
func (r Rope) Chunks() iter.Seq[chunk.ChunkSlice] {
	if r.IsEmpty() {
		return func(func(chunk.ChunkSlice) bool) {}
	}
	return r.tree.Leaves().All()
}

// --- Editing ---------------------------------------------------------------

// Insert inserts text at byte position at and returns the new rope.
func (r Rope) Insert(at uint64, text string) (Rope, error) {
	if at > r.Len() {
		return r, ErrIndexOutOfBounds
	}
	if !utf8.ValidString(text) {
		return r, ErrInvalidUTF8
	}
	if len(text) == 0 {
		return r, nil
	}
	if r.IsEmpty() {
		var opts []Option
		if r.tree != nil {
			opts = append(opts, WithDegree(r.tree.Config().Degree))
		}
		return FromString(text, opts...)
	}
	if !r.isCharBoundary(at) {
		return r, ErrNotCharBoundary
	}
	index, acc := r.locate(at)
	leaf, err := r.tree.At(index)
	assert(err == nil, "rope insert: located leaf out of range")
	local := int(at - acc)
	var tree *ropeTree
	if leaf.Len()+len(text) <= chunk.MaxBase {
		c := chunk.FromSlice(leaf)
		err = c.InsertString(local, text)
		assert(err == nil, "rope insert: chunk rejected text")
		tree, err = r.tree.ReplaceAt(index, c.AsSlice())
	} else {
		merged := make([]byte, 0, leaf.Len()+len(text))
		merged = leaf.ByteSlice(0, local).AppendTo(merged)
		merged = append(merged, text...)
		merged = leaf.ByteSlice(local, leaf.Len()).AppendTo(merged)
		leaves, e := splitToChunks(merged)
		assert(e == nil, "rope insert: cannot re-chunk leaf")
		tracer().Debugf("rope insert: leaf %d re-chunked into %d leaves", index, len(leaves))
		tree, err = r.tree.Splice(index, 1, leaves...)
	}
	if err != nil {
		return r, err
	}
	return Rope{tree: tree}, nil
}

// Append appends text at the end of the rope and returns the new rope.
func (r Rope) Append(text string) (Rope, error) {
	return r.Insert(r.Len(), text)
}

// Delete removes the bytes in [start,end) and returns the new rope.
func (r Rope) Delete(start, end uint64) (Rope, error) {
	if start > end || end > r.Len() {
		return r, ErrIndexOutOfBounds
	}
	if start == end {
		return r, nil
	}
	if !r.isCharBoundary(start) || !r.isCharBoundary(end) {
		return r, ErrNotCharBoundary
	}
	first, firstAcc := r.locate(start + 1)
	last, lastAcc := r.locate(end)
	var tree *ropeTree
	var err error
	if first == last {
		leaf, e := r.tree.At(first)
		assert(e == nil, "rope delete: located leaf out of range")
		c := chunk.FromSlice(leaf)
		e = c.Delete(int(start-firstAcc), int(end-firstAcc))
		assert(e == nil, "rope delete: chunk rejected range")
		if c.IsEmpty() {
			tree, err = r.tree.DeleteAt(first)
		} else {
			tree, err = r.tree.ReplaceAt(first, c.AsSlice())
		}
	} else {
		head, e := r.tree.At(first)
		assert(e == nil, "rope delete: located leaf out of range")
		tail, e := r.tree.At(last)
		assert(e == nil, "rope delete: located leaf out of range")
		merged := head.ByteSlice(0, int(start-firstAcc)).AppendTo(nil)
		merged = tail.ByteSlice(int(end-lastAcc), tail.Len()).AppendTo(merged)
		leaves, e := splitToChunks(merged)
		assert(e == nil, "rope delete: cannot re-chunk leaves")
		tree, err = r.tree.Splice(first, last-first+1, leaves...)
	}
	if err != nil {
		return r, err
	}
	if tree, err = compact(tree, min(first, tree.Len()-1)); err != nil {
		return r, err
	}
	return Rope{tree: tree}, nil
}

// compact merges the leaf at index with a neighbour if the leaf has shrunk
// below chunk.MinBase and both fit into a single chunk.
func compact(tree *ropeTree, index int) (*ropeTree, error) {
	if index < 0 || tree.Len() < 2 {
		return tree, nil
	}
	leaf, err := tree.At(index)
	if err != nil || leaf.Len() >= chunk.MinBase {
		return tree, err
	}
	for _, at := range []int{index, index - 1} {
		if at < 0 || at+1 >= tree.Len() {
			continue
		}
		left, _ := tree.At(at)
		right, _ := tree.At(at + 1)
		if left.Len()+right.Len() > chunk.MaxBase {
			continue
		}
		c := chunk.FromSlice(left)
		ok := c.Append(right.Bytes())
		assert(ok, "rope compact: merged leaves exceed chunk")
		return tree.Splice(at, 2, c.AsSlice())
	}
	return tree, nil
}

// --- Addressing ------------------------------------------------------------

// locate returns the index of the leaf holding the byte just before position
// at, and the position where this leaf starts. Position 0 maps to leaf 0.
func (r Rope) locate(at uint64) (int, uint64) {
	cursor, err := btree.NewCursor(r.tree, btree.Metric[chunk.ChunkSlice, chunk.Summary](chunk.ByteMetric{}))
	assert(err == nil, "rope: cannot create byte cursor")
	index, acc, err := cursor.Seek(at)
	assert(err == nil, "rope: byte cursor failed")
	return index, acc
}

func (r Rope) leafAt(at uint64) (chunk.ChunkSlice, uint64) {
	index, acc := r.locate(at)
	leaf, err := r.tree.At(index)
	assert(err == nil, "rope: located leaf out of range")
	return leaf, acc
}

// isCharBoundary reports whether position at does not split a UTF-8 sequence.
func (r Rope) isCharBoundary(at uint64) bool {
	if at == 0 || at >= r.Len() {
		return at <= r.Len()
	}
	leaf, acc := r.leafAt(at)
	return leaf.IsCharBoundary(int(at - acc))
}

// splitToChunks splits UTF-8 bytes into chunk-sized pieces.
//
// Boundaries are adjusted so no chunk starts or ends in the middle of a UTF-8
// rune.
func splitToChunks(text []byte) ([]chunk.ChunkSlice, error) {
	if len(text) == 0 {
		return nil, nil
	}
	if !utf8.Valid(text) {
		return nil, ErrInvalidUTF8
	}
	parts := make([]chunk.ChunkSlice, 0, 1+len(text)/chunk.MaxBase)
	for _, piece := range splitRunes(text, chunk.MaxBase) {
		c, err := chunk.NewBytes(piece)
		if err != nil {
			return nil, err
		}
		parts = append(parts, c.AsSlice())
	}
	return parts, nil
}

// splitRunes cuts valid UTF-8 text into pieces of at most size bytes, never
// inside a rune.
func splitRunes(text []byte, size int) [][]byte {
	var pieces [][]byte
	for i := 0; i < len(text); {
		end := i + size
		if end >= len(text) {
			end = len(text)
		} else {
			for end > i && !utf8.RuneStart(text[end]) {
				end--
			}
		}
		assert(end > i, "splitRunes: piece size smaller than a rune")
		pieces = append(pieces, text[i:end])
		i = end
	}
	return pieces
}
