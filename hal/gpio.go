package hal

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// CarrierSensePin watches a GPIO line for rising edges from the optical
// carrier-sense envelope detector, which pulses once per lit chip.
type CarrierSensePin struct {
	pin gpio.PinIn

	mu      sync.Mutex
	cancel  chan struct{}
	stopped chan struct{}
}

// OpenCarrierSensePin looks up name in the periph GPIO registry and
// configures it as a rising-edge input, leaving its pull setting unchanged.
func OpenCarrierSensePin(name string) (*CarrierSensePin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("hal: no such GPIO pin %q", name)
	}
	in, ok := p.(gpio.PinIn)
	if !ok {
		return nil, fmt.Errorf("hal: pin %q does not support input", name)
	}
	if err := in.In(gpio.PullNoChange, gpio.RisingEdge); err != nil {
		return nil, fmt.Errorf("hal: configuring %q for rising edge: %w", name, err)
	}
	return &CarrierSensePin{pin: in}, nil
}

// Attach starts watching for rising edges and calls handler from a dedicated
// goroutine on each one, the software analogue of an edge-triggered ISR.
// Attach must be paired with Detach before another state reuses the pin.
func (c *CarrierSensePin) Attach(handler func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel = make(chan struct{})
	c.stopped = make(chan struct{})
	cancel, stopped, pin := c.cancel, c.stopped, c.pin
	go func() {
		defer close(stopped)
		for {
			select {
			case <-cancel:
				return
			default:
			}
			if pin.WaitForEdge(50 * time.Millisecond) {
				handler()
			}
		}
	}()
}

// Detach stops the edge-watching goroutine. It blocks until the goroutine
// has exited, so the caller can rely on handler never firing again once
// Detach returns.
func (c *CarrierSensePin) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return
	}
	close(c.cancel)
	<-c.stopped
	c.cancel = nil
	c.stopped = nil
}

// DebugClockPin is an optional GPIO output toggled once per chip sample,
// useful for scoping chip-sample timing with a logic analyzer. It has no
// effect on decoding.
type DebugClockPin struct {
	pin gpio.PinOut
	on  bool
}

// OpenDebugClockPin looks up name in the periph registry and configures it
// as an output. An empty name disables the debug clock (OpenDebugClockPin
// returns nil, nil).
func OpenDebugClockPin(name string) (*DebugClockPin, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("hal: no such GPIO pin %q", name)
	}
	out, ok := p.(gpio.PinOut)
	if !ok {
		return nil, fmt.Errorf("hal: pin %q does not support output", name)
	}
	if err := out.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("hal: initializing %q low: %w", name, err)
	}
	return &DebugClockPin{pin: out}, nil
}

// Toggle flips the pin's output level. Called once per chip sample.
func (d *DebugClockPin) Toggle() {
	if d == nil {
		return
	}
	d.on = !d.on
	level := gpio.Low
	if d.on {
		level = gpio.High
	}
	_ = d.pin.Out(level)
}
