package rxstate

import "sync/atomic"

// Register holds the current state identifier. It is written from ISR-like
// contexts (a state's own callbacks) and from the foreground dispatcher, and
// read by the foreground dispatcher every iteration. A later
// write overriding an earlier one is safe by construction: only the
// currently active state ever calls Set, so there is exactly one writer at
// any given time even though "writer" migrates across state transitions.
type Register struct {
	v atomic.Int32
}

// NewRegister creates a register holding initial.
func NewRegister(initial ID) *Register {
	r := &Register{}
	r.Set(initial)
	return r
}

// Set stores the new current state.
func (r *Register) Set(id ID) {
	r.v.Store(int32(id))
}

// Get returns the current state.
func (r *Register) Get() ID {
	return ID(r.v.Load())
}
