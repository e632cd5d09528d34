// Package gate provides a one-shot readiness barrier. Any number of waiters
// may block on a gate; all are released exactly once when it opens, and
// waiting on an already open gate returns immediately.
package gate

import (
	"context"
	"sync"
)

// Gate is a one-shot readiness barrier.
type Gate struct {
	once sync.Once
	ch   chan struct{}
}

// New returns a closed gate.
func New() *Gate {
	return &Gate{ch: make(chan struct{})}
}

// Open releases all current and future waiters. Calling Open more than once
// is a no-op.
func (g *Gate) Open() {
	g.once.Do(func() { close(g.ch) })
}

// IsOpen reports whether the gate has been opened.
func (g *Gate) IsOpen() bool {
	select {
	case <-g.ch:
		return true
	default:
		return false
	}
}

// Wait blocks until the gate opens or the context is done.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel that is closed once the gate opens.
func (g *Gate) Done() <-chan struct{} {
	return g.ch
}
