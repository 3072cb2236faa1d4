package sim

import "sync"

// EdgeLine is the simulated carrier-sense line: an attach/detach surface
// matching hal.CarrierSensePin, pulsed by the World at scheduled times.
type EdgeLine struct {
	mu      sync.Mutex
	handler func()
}

// NewEdgeLine returns a line with no handler attached.
func NewEdgeLine() *EdgeLine {
	return &EdgeLine{}
}

func (e *EdgeLine) Attach(handler func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handler = handler
}

func (e *EdgeLine) Detach() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handler = nil
}

func (e *EdgeLine) pulse() {
	e.mu.Lock()
	h := e.handler
	e.mu.Unlock()
	if h != nil {
		h()
	}
}
