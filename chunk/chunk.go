package chunk

import (
	"unicode/utf8"
)

const (
	// MaxBase is the default chunk capacity in bytes.
	MaxBase = 64
	// MinBase is the occupancy below which callers should consider merging
	// neighbouring chunks.
	MinBase = MaxBase / 2
)

// Chunk is a bounded gap buffer holding UTF-8 text.
//
// The buffer is laid out as
//
//	[first segment][gap][second segment]
//
// and edits move the gap to the edit position before touching any bytes, so a
// run of edits close to each other costs little more than the bytes inserted.
//
// Chunks are mutable. Once a view has been handed out by AsSlice, the chunk
// treats its buffer as shared and copies it before the next edit, leaving the
// published view untouched.
type Chunk struct {
	buf       []byte // len(buf) is the capacity
	lenFirst  int
	lenSecond int
	shared    bool
}

// New creates a chunk of capacity MaxBase from UTF-8 text.
//
// Returns an error if the text is not valid UTF-8 or exceeds MaxBase bytes.
func New(text string) (*Chunk, error) {
	return NewWithCapacity(MaxBase, text)
}

// NewBytes creates a chunk of capacity MaxBase from UTF-8 bytes.
//
// Important for file ingestion: callers should split raw input only at UTF-8
// rune boundaries before calling NewBytes for each chunk. This constructor
// validates UTF-8 and will reject byte slices that start/end in the middle of
// a multi-byte rune.
func NewBytes(text []byte) (*Chunk, error) {
	return newChunk(MaxBase, text)
}

// NewWithCapacity creates a chunk with a given capacity from UTF-8 text.
//
// The text is placed around a gap in the middle of the buffer (at the last
// rune boundary not after len(text)/2).
func NewWithCapacity(capacity int, text string) (*Chunk, error) {
	return newChunk(capacity, []byte(text))
}

func newChunk(capacity int, text []byte) (*Chunk, error) {
	if !utf8.Valid(text) {
		return nil, ErrInvalidUTF8
	}
	if capacity <= 0 || len(text) > capacity {
		return nil, ErrChunkTooLarge
	}
	mid := len(text) / 2
	for mid > 0 && !utf8.RuneStart(text[mid]) {
		mid--
	}
	c := &Chunk{buf: make([]byte, capacity)}
	copy(c.buf, text[:mid])
	copy(c.buf[capacity-(len(text)-mid):], text[mid:])
	c.lenFirst = mid
	c.lenSecond = len(text) - mid
	return c, nil
}

// FromSlice copies a chunk view into a fresh, private chunk.
//
// The segment layout of s is preserved, i.e. the gap of the new chunk sits
// where the gap of s sits. Capacity is MaxBase, or the length of s if larger.
func FromSlice(s ChunkSlice) *Chunk {
	capacity := max(MaxBase, s.Len())
	c := &Chunk{buf: make([]byte, capacity)}
	copy(c.buf, s.FirstSegment())
	copy(c.buf[capacity-s.lenSecond:], s.SecondSegment())
	c.lenFirst = s.lenFirst
	c.lenSecond = s.lenSecond
	return c
}

// Len returns the text length in bytes.
func (c *Chunk) Len() int {
	return c.lenFirst + c.lenSecond
}

// Cap returns the capacity of the chunk in bytes.
func (c *Chunk) Cap() int {
	return len(c.buf)
}

// LenGap returns the number of unused bytes between the two segments.
func (c *Chunk) LenGap() int {
	return len(c.buf) - c.Len()
}

// IsEmpty reports whether the chunk has no bytes.
func (c *Chunk) IsEmpty() bool {
	return c.Len() == 0
}

// String returns the chunk text.
func (c *Chunk) String() string {
	return c.view().String()
}

// GoString renders the chunk with its gap visible, see ChunkSlice.GoString.
func (c *Chunk) GoString() string {
	return c.view().GoString()
}

// Bytes returns a copied byte slice of the chunk text.
func (c *Chunk) Bytes() []byte {
	return c.view().Bytes()
}

// IsCharBoundary reports whether offset is a UTF-8 boundary inside this chunk.
func (c *Chunk) IsCharBoundary(offset int) bool {
	return c.view().IsCharBoundary(offset)
}

// Summary returns aggregate metrics for this chunk.
func (c *Chunk) Summary() Summary {
	return c.view().Summary()
}

// AsSlice publishes an immutable view over the full chunk.
//
// Subsequent edits of c will not be visible through the returned view.
func (c *Chunk) AsSlice() ChunkSlice {
	c.shared = true
	return c.view()
}

func (c *Chunk) view() ChunkSlice {
	return ChunkSlice{
		bytes:     c.buf[:len(c.buf):len(c.buf)],
		lenFirst:  c.lenFirst,
		lenSecond: c.lenSecond,
	}
}

// Insert inserts UTF-8 text at byte offset.
func (c *Chunk) Insert(offset int, text []byte) error {
	if offset < 0 || offset > c.Len() {
		return ErrIndexOutOfBounds
	}
	if !c.IsCharBoundary(offset) {
		return ErrNotCharBoundary
	}
	if !utf8.Valid(text) {
		return ErrInvalidUTF8
	}
	if len(text) > c.LenGap() {
		return ErrChunkTooLarge
	}
	if len(text) == 0 {
		return nil
	}
	c.unshare()
	c.moveGap(offset)
	copy(c.buf[c.lenFirst:], text)
	c.lenFirst += len(text)
	return nil
}

// InsertString inserts UTF-8 text at byte offset.
func (c *Chunk) InsertString(offset int, text string) error {
	return c.Insert(offset, []byte(text))
}

// Append appends UTF-8 text to the end of the chunk.
//
// It reports false and leaves the chunk unchanged if the text does not fit.
func (c *Chunk) Append(text []byte) bool {
	return c.Insert(c.Len(), text) == nil
}

// Delete removes the bytes in [start,end).
func (c *Chunk) Delete(start, end int) error {
	if start < 0 || end < start || end > c.Len() {
		return ErrIndexOutOfBounds
	}
	if !c.IsCharBoundary(start) || !c.IsCharBoundary(end) {
		return ErrNotCharBoundary
	}
	if start == end {
		return nil
	}
	c.unshare()
	c.moveGap(start)
	c.lenSecond -= end - start
	return nil
}

// moveGap moves the gap so that the first segment ends at offset.
func (c *Chunk) moveGap(offset int) {
	gapEnd := len(c.buf) - c.lenSecond
	switch {
	case offset < c.lenFirst:
		n := c.lenFirst - offset
		copy(c.buf[gapEnd-n:gapEnd], c.buf[offset:c.lenFirst])
		c.lenFirst = offset
		c.lenSecond += n
	case offset > c.lenFirst:
		n := offset - c.lenFirst
		copy(c.buf[c.lenFirst:c.lenFirst+n], c.buf[gapEnd:gapEnd+n])
		c.lenFirst = offset
		c.lenSecond -= n
	}
}

func (c *Chunk) unshare() {
	if !c.shared {
		return
	}
	c.buf = append([]byte(nil), c.buf...)
	c.shared = false
}
