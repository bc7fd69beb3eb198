package client

import (
	"errors"
	"sync/atomic"
)

// ErrStaleResponse is returned for a response that a newer request has
// superseded.
var ErrStaleResponse = errors.New("stale response discarded")

// Tracker tags requests with a generation so only the latest one is applied.
type Tracker struct {
	gen atomic.Uint64
}

// Begin starts a new generation and returns it.
func (t *Tracker) Begin() uint64 {
	return t.gen.Add(1)
}

// Current reports whether gen is still the latest generation.
func (t *Tracker) Current(gen uint64) bool {
	return t.gen.Load() == gen
}

// Invalidate makes every outstanding generation stale.
func (t *Tracker) Invalidate() {
	t.gen.Add(1)
}
