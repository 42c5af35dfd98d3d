package gaprope

import (
	"unicode/utf8"

	"github.com/npillmayer/gaprope/chunk"
)

// Builder incrementally stages text and finalizes it into a Rope.
//
// Builder collects UTF-8 text in gap-buffer chunks and materializes the rope
// only when Rope() is called, building the tree in a single bottom-up pass.
// Small appends and prepends are merged into the staged chunks.
//
// The empty instance is a valid builder, but clients may use NewBuilder.
type Builder struct {
	// front keeps prepended chunks in reverse logical order.
	front []*chunk.Chunk
	// back keeps appended chunks in logical order.
	back []*chunk.Chunk

	opts  []Option
	done  bool
	dirty bool
	rope  Rope
}

// NewBuilder creates a new and empty rope builder.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{opts: opts}
}

// Rope returns the rope built from all staged text.
//
// It is illegal to continue adding text after Rope has been called, but
// Rope may be called multiple times.
func (b *Builder) Rope() (Rope, error) {
	if b == nil {
		return Rope{}, nil
	}
	if b.dirty {
		rope, err := b.buildRope()
		if err != nil {
			return Rope{}, err
		}
		b.rope = rope
		b.dirty = false
	}
	b.done = true
	if b.rope.IsEmpty() {
		tracer().Debugf("rope builder: rope is empty")
	}
	return b.rope, nil
}

// Reset drops the staged build and prepares the builder for a fresh build.
func (b *Builder) Reset() {
	b.front = nil
	b.back = nil
	b.done = false
	b.dirty = false
	b.rope = Rope{}
}

// AppendString appends UTF-8 text to the staged build.
func (b *Builder) AppendString(text string) error {
	return b.AppendBytes([]byte(text))
}

// PrependString prepends UTF-8 text to the staged build.
func (b *Builder) PrependString(text string) error {
	return b.PrependBytes([]byte(text))
}

// AppendBytes appends UTF-8 bytes to the staged build.
func (b *Builder) AppendBytes(text []byte) error {
	if err := b.checkAdd(text); err != nil {
		return err
	}
	for _, piece := range splitRunes(text, chunk.MaxBase) {
		if len(b.back) > 0 && b.back[len(b.back)-1].Append(piece) {
			continue
		}
		c, err := chunk.NewBytes(piece)
		if err != nil {
			return err
		}
		b.back = append(b.back, c)
	}
	b.dirty = b.dirty || len(text) > 0
	return nil
}

// PrependBytes prepends UTF-8 bytes to the staged build.
func (b *Builder) PrependBytes(text []byte) error {
	if err := b.checkAdd(text); err != nil {
		return err
	}
	pieces := splitRunes(text, chunk.MaxBase)
	for i := len(pieces) - 1; i >= 0; i-- {
		if len(b.front) > 0 && b.front[len(b.front)-1].Insert(0, pieces[i]) == nil {
			continue
		}
		c, err := chunk.NewBytes(pieces[i])
		if err != nil {
			return err
		}
		b.front = append(b.front, c)
	}
	b.dirty = b.dirty || len(text) > 0
	return nil
}

func (b *Builder) checkAdd(text []byte) error {
	if b == nil {
		return ErrIllegalArguments
	}
	if b.done {
		return ErrRopeCompleted
	}
	if !utf8.Valid(text) {
		return ErrInvalidUTF8
	}
	return nil
}

func (b *Builder) buildRope() (Rope, error) {
	leaves := make([]chunk.ChunkSlice, 0, len(b.front)+len(b.back))
	for i := len(b.front) - 1; i >= 0; i-- {
		leaves = append(leaves, b.front[i].AsSlice())
	}
	for _, c := range b.back {
		leaves = append(leaves, c.AsSlice())
	}
	tree, err := newTree(treeConfig(b.opts), leaves...)
	if err != nil {
		return Rope{}, err
	}
	tracer().Debugf("rope builder: built tree of %d leaves, height %d", tree.Len(), tree.Height())
	return Rope{tree: tree}, nil
}
