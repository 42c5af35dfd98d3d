package gaprope

/*
BSD 3-Clause License

Copyright (c) 2020–26, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/guiguan/caster"
)

// Snapshot is a version of the text held by a Document.
type Snapshot struct {
	Version uint64
	Rope    Rope
}

// Document holds the current text of a single writer and broadcasts every new
// version to subscribers.
//
// Readers get the current snapshot without locking and may keep using it for as
// long as they like; edits never change a published rope. Edits are serialized
// by Apply.
type Document struct {
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex // serializes writers
	closed  bool
	cast    *caster.Caster

	subsMu sync.Mutex
	subs   map[<-chan Snapshot]subscription
}

type subscription struct {
	raw  chan interface{}
	done chan struct{}
}

// NewDocument creates a document with r as version 0. The document is closed
// when ctx is done.
func NewDocument(ctx context.Context, r Rope) *Document {
	d := &Document{
		cast: caster.New(ctx),
		subs: make(map[<-chan Snapshot]subscription),
	}
	d.current.Store(&Snapshot{Rope: r})
	return d
}

// Snapshot returns the current version of the text.
func (d *Document) Snapshot() Snapshot {
	return *d.current.Load()
}

// Apply runs edit on the current rope and, if edit succeeds, publishes the
// result as the next version. If edit returns an error, the document is left
// unchanged and the current snapshot is returned together with the error.
//
// Subscribers receive snapshots in version order. A subscriber that does not
// drain its channel will eventually hold up Apply.
func (d *Document) Apply(edit func(Rope) (Rope, error)) (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur := d.current.Load()
	if d.isClosed() {
		return *cur, ErrDocumentClosed
	}
	next, err := edit(cur.Rope)
	if err != nil {
		return *cur, err
	}
	snap := &Snapshot{Version: cur.Version + 1, Rope: next}
	if !d.cast.Pub(*snap) {
		d.closed = true
		return *cur, ErrDocumentClosed
	}
	d.current.Store(snap)
	tracer().Debugf("document: version %d, %d bytes", snap.Version, next.Len())
	return *snap, nil
}

// isClosed reports whether Close has been called or the context of the
// document is done. d.mu must be held.
func (d *Document) isClosed() bool {
	if d.closed {
		return true
	}
	select {
	case <-d.cast.Done():
		d.closed = true
	default:
	}
	return d.closed
}

// Subscribe returns a channel receiving every snapshot published after the
// call. The channel is closed when ctx is done, on Unsubscribe, or when the
// document is closed.
func (d *Document) Subscribe(ctx context.Context, capacity uint) (<-chan Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.isClosed() {
		return nil, ErrDocumentClosed
	}
	raw, ok := d.cast.Sub(context.Background(), capacity)
	if !ok {
		return nil, ErrDocumentClosed
	}
	out := make(chan Snapshot, capacity)
	sub := subscription{raw: raw, done: make(chan struct{})}
	d.subsMu.Lock()
	d.subs[out] = sub
	d.subsMu.Unlock()
	go d.forward(ctx, sub, out)
	return out, nil
}

// Unsubscribe ends a subscription created by Subscribe. The channel is closed
// shortly after.
func (d *Document) Unsubscribe(ch <-chan Snapshot) {
	if sub, ok := d.dropSubscription(ch); ok {
		close(sub.done)
	}
}

func (d *Document) dropSubscription(ch <-chan Snapshot) (subscription, bool) {
	d.subsMu.Lock()
	defer d.subsMu.Unlock()
	sub, ok := d.subs[ch]
	delete(d.subs, ch)
	return sub, ok
}

// Close ends all subscriptions. Further edits return ErrDocumentClosed, the
// last snapshot stays readable.
func (d *Document) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()
	d.cast.Close()
	tracer().Debugf("document: closed at version %d", d.Snapshot().Version)
}

// forward passes snapshots from the caster to a subscriber until the caster
// is done, ctx is done or the subscription is dropped. It is the only place
// unsubscribing from the caster.
func (d *Document) forward(ctx context.Context, sub subscription, out chan Snapshot) {
	rawClosed := false
	defer func() {
		d.dropSubscription(out)
		close(out)
		if rawClosed {
			return
		}
		go func() {
			for range sub.raw { // keeps the caster from blocking until Unsub closes raw
			}
		}()
		d.cast.Unsub(sub.raw)
	}()
	for {
		select {
		case msg, ok := <-sub.raw:
			if !ok {
				rawClosed = true
				return
			}
			select {
			case out <- msg.(Snapshot):
			case <-sub.done:
				return
			case <-ctx.Done():
				return
			case <-d.cast.Done():
				return
			}
		case <-sub.done:
			return
		case <-ctx.Done():
			return
		case <-d.cast.Done():
			return
		}
	}
}
