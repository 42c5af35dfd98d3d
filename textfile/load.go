package textfile

/*
BSD 3-Clause License

Copyright (c) 2020–26, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/guiguan/caster"
	"github.com/npillmayer/gaprope"
)

// Some constants for fragment size defaults
const (
	twoKb     = 2048
	sixKb     = 6144
	tenKb     = 10240
	hundredKb = 102400
	oneMb     = 1048576
)

// prefetch is the number of fragments the reader may run ahead of the builder.
const prefetch = 4

// fragment is a piece of a text file, published by the reading goroutine.
type fragment struct {
	pos  int64
	data []byte
	err  error
	last bool
}

// textFile represents an OS file which will be loaded as a rope.
type textFile struct {
	path string      // file name
	info os.FileInfo // result from Stat(path)
	file *os.File    // file handle
}

// ErrNotRegular is returned for paths which do not denote a regular file.
var ErrNotRegular = errors.New("textfile: not a regular file")

// Load reads a file, which must be a UTF-8 text file, and loads it as a rope.
// Clients may indicate a recommended fragment length for reading; 0 lets Load
// choose one depending on the file size. Options are passed on to the rope
// builder.
func Load(ctx context.Context, name string, fragSize int64, opts ...gaprope.Option) (gaprope.Rope, error) {
	tf, err := openFile(name)
	if err != nil {
		return gaprope.Rope{}, err
	}
	defer tf.file.Close()
	fragSize = fragmentSize(tf.info.Size(), fragSize)
	tracer().Debugf("textfile: loading %q, %d bytes in fragments of %d", tf.path, tf.info.Size(), fragSize)
	//
	ctx, cancel := context.WithCancel(ctx)
	cast := caster.New(context.Background()) // broadcasts fragments as they are read
	frags, _ := cast.Sub(context.Background(), prefetch)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		readFragments(ctx, tf, fragSize, cast)
	}()
	defer func() {
		cancel()
		go func() {
			for range frags { // unblocks a pending Pub until Close closes frags
			}
		}()
		<-readerDone
		cast.Close()
	}()
	return collect(ctx, frags, opts)
}

// fragmentSize returns the client's choice if it is sensible, a default
// depending on the file size otherwise.
func fragmentSize(size int64, fragSize int64) int64 {
	if fragSize > 0 && fragSize <= tenKb {
		return fragSize
	}
	switch {
	case size < 64:
		return 64
	case size < 1024:
		return 256
	case size < tenKb:
		return 512
	case size < hundredKb:
		return twoKb
	case size < oneMb:
		return sixKb
	}
	return tenKb
}

// openFile opens an OS file and collect some useful information on it,
// checking for error conditions.
func openFile(name string) (*textFile, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	} else if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, name)
	}
	file, err := os.Open(name) // just open for read access
	if err != nil {
		return nil, err
	}
	return &textFile{path: name, info: fi, file: file}, nil
}

// --- File loading goroutine ------------------------------------------------

func readFragments(ctx context.Context, tf *textFile, fragSize int64, cast *caster.Caster) {
	size := tf.info.Size()
	for pos := int64(0); ; pos += fragSize {
		if ctx.Err() != nil {
			return
		}
		length := min(fragSize, size-pos)
		frag := fragment{pos: pos, last: pos+length >= size}
		if length > 0 {
			frag.data = make([]byte, length)
			cnt, err := tf.file.ReadAt(frag.data, pos)
			if err != nil && err != io.EOF {
				frag.err = fmt.Errorf("textfile: loading fragment at %d: %w", pos, err)
			} else if int64(cnt) < length {
				frag.err = fmt.Errorf("textfile: file changed while loading, fragment at %d", pos)
			}
		}
		if !cast.Pub(frag) || frag.last || frag.err != nil {
			return
		}
	}
}

// collect appends fragments to a rope builder. Runes may straddle fragments;
// the incomplete tail of a fragment is carried over to the next one.
func collect(ctx context.Context, frags <-chan interface{}, opts []gaprope.Option) (gaprope.Rope, error) {
	b := gaprope.NewBuilder(opts...)
	var carry []byte
	for {
		if ctx.Err() != nil {
			return gaprope.Rope{}, ctx.Err()
		}
		select {
		case <-ctx.Done():
			return gaprope.Rope{}, ctx.Err()
		case msg, ok := <-frags:
			if !ok {
				return gaprope.Rope{}, errors.New("textfile: loading aborted")
			}
			frag := msg.(fragment)
			if frag.err != nil {
				return gaprope.Rope{}, frag.err
			}
			text := append(carry, frag.data...)
			cut := len(text)
			if !frag.last {
				cut = completeRunes(text)
			}
			if err := b.AppendBytes(text[:cut]); err != nil {
				return gaprope.Rope{}, fmt.Errorf("fragment at %d: %w", frag.pos, err)
			}
			carry = append([]byte(nil), text[cut:]...)
			if frag.last {
				tracer().Debugf("textfile: all fragments loaded")
				return b.Rope()
			}
		}
	}
}

// completeRunes returns the length of the prefix of text which does not end
// in an incomplete UTF-8 sequence.
func completeRunes(text []byte) int {
	for i := len(text) - 1; i >= 0 && i >= len(text)-utf8.UTFMax; i-- {
		if utf8.RuneStart(text[i]) {
			if utf8.FullRune(text[i:]) {
				return len(text)
			}
			return i
		}
	}
	return len(text)
}
