package gaprope

import (
	"io"

	"github.com/npillmayer/gaprope/btree"
	"github.com/npillmayer/gaprope/chunk"
)

// Reader returns a reader for the bytes of the rope.
func (r Rope) Reader() io.Reader {
	rr := &ropeReader{}
	if !r.IsEmpty() {
		rr.leaves = r.tree.Leaves()
	}
	return rr
}

// Reader returns a reader for the bytes of the span.
func (s Span) Reader() io.Reader {
	return &ropeReader{leaves: s.slice.Leaves()}
}

type ropeReader struct {
	leaves *btree.Leaves[chunk.ChunkSlice, chunk.Summary]
	buf    []byte // holds the current leaf
	unread []byte // unread rest of buf
}

func (rr *ropeReader) Read(p []byte) (n int, err error) {
	for n < len(p) {
		if len(rr.unread) == 0 {
			if rr.leaves == nil {
				break
			}
			leaf, ok := rr.leaves.Next()
			if !ok {
				break
			}
			rr.buf = leaf.AppendTo(rr.buf[:0])
			rr.unread = rr.buf
			continue
		}
		c := copy(p[n:], rr.unread)
		rr.unread = rr.unread[c:]
		n += c
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}
