package pixelsort

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrSequencePassed is returned when a frame waits for a sequence number the
// gate has already moved past, which means the frame was seen twice.
var ErrSequencePassed = errors.New("sequence number already passed the gate")

// Gate holds the sequence number the sink will consume next. Workers wait on
// it so that frames are published in stream order.
//
// Advance must only be called from a single goroutine. Wait may be called
// from any number of goroutines.
type Gate struct {
	next atomic.Uint64
	wake atomic.Pointer[chan struct{}]
}

// NewGate creates a gate starting at sequence 0.
func NewGate() *Gate {
	g := &Gate{}
	wake := make(chan struct{})
	g.wake.Store(&wake)
	return g
}

// Load returns the next sequence number to be consumed.
func (g *Gate) Load() uint64 {
	return g.next.Load()
}

// Wait blocks until the gate reaches seq or ctx is done.
func (g *Gate) Wait(ctx context.Context, seq uint64) error {
	for {
		// Load the wake channel before the counter, Advance updates them in
		// the opposite order so no notification is lost in between.
		wake := g.wake.Load()
		next := g.next.Load()
		switch {
		case next == seq:
			return nil
		case next > seq:
			return fmt.Errorf("%w: frame %d, gate at %d", ErrSequencePassed, seq, next)
		}

		select {
		case <-*wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Advance moves the gate to the next sequence number, wakes every waiter and
// returns the new value.
func (g *Gate) Advance() uint64 {
	next := g.next.Add(1)
	wake := make(chan struct{})
	old := g.wake.Swap(&wake)
	close(*old)
	return next
}
