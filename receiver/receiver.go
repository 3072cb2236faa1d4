package receiver

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"

	"github.com/lumalink/lumalink/hal"
	"github.com/lumalink/lumalink/rxstate"
)

// Receiver owns every hardware handle the state machine touches and the
// sink decoded bytes stream to. The cmd binaries construct one with real
// HAL handles; tests construct one over the sim package's fakes.
type Receiver struct {
	// Clock is the monotonic µs timestamp source (hal.SystemClock).
	Clock rxstate.ClockReader
	// Timer is the single rearmable chip timer every state shares
	// (hal.ChipTimer). States detach it on exit, so sharing is safe.
	Timer rxstate.Timer
	// CS is the carrier-sense rising-edge source (hal.CarrierSensePin).
	CS rxstate.EdgeSource
	// PD is the photodiode sample source.
	PD hal.AnalogInput
	// Debug optionally toggles once per chip sample. Nil disables it.
	Debug rxstate.DebugClock
	// Sink receives the decoded byte stream, and DoNothing's diagnostic
	// dump should that state ever be entered.
	Sink io.Writer

	Config  ReceiverConfig
	Profile LinkProfile

	disp *rxstate.Dispatcher

	mu     sync.Mutex
	status Status
}

// Status is a diagnostic snapshot of the state machine: the current state
// and the Context handed across its entry transition.
type Status struct {
	State       rxstate.ID
	Period      hal.SystemTime
	LastCSClock hal.SystemTime
	Intensities [2]int32
}

var errMissingHandle = errors.New("receiver: Clock, Timer, CS, PD and Sink must all be set")

// Dispatcher wires the six states over the receiver's handles and returns
// the dispatcher driving them, building it on first call. The initial
// state is Waiting.
func (r *Receiver) Dispatcher() (*rxstate.Dispatcher, error) {
	if r.disp != nil {
		return r.disp, nil
	}
	if r.Clock == nil || r.Timer == nil || r.CS == nil || r.PD == nil || r.Sink == nil {
		return nil, errMissingHandle
	}
	cfg := r.Config
	reg := rxstate.NewRegister(rxstate.IDWaiting)
	waiting := rxstate.NewWaiting(reg, r.CS, r.Timer, r.Clock, cfg.NoiseTimeout())
	syncing := rxstate.NewSyncing(reg, r.CS, r.Timer, r.Clock, cfg.SyncTimeoutRatio())
	synced := rxstate.NewSynced(reg, r.CS, r.Timer, r.Clock, cfg.EndOfCarrierRatio())
	leveling := rxstate.NewLeveling(reg, r.CS, r.Timer, r.Clock, r.PD,
		cfg.PhaseDelayRatio(), cfg.PhaseAdvanceRatio(), cfg.CarrierLoss())
	receiving := rxstate.NewReceiving(reg, r.CS, r.Timer, r.Clock, r.PD, sinkByteWriter(r.Sink),
		cfg.PhaseDelayRatio(), cfg.PhaseAdvanceRatio(), cfg.CarrierLoss())
	if r.Debug != nil {
		leveling.AttachDebugClock(r.Debug)
		receiving.AttachDebugClock(r.Debug)
	}
	r.disp = rxstate.NewDispatcher(reg,
		waiting, syncing, synced, leveling, receiving, rxstate.NewDoNothing(r.Sink))
	return r.disp, nil
}

// Tick runs one foreground-loop iteration: dispatch any pending transition,
// run the current state's Main, and refresh the diagnostic status. Callers
// driving the receiver from a simulation use this directly; Run wraps it.
func (r *Receiver) Tick() {
	d := r.disp
	if d == nil {
		return
	}
	d.Tick()
	if cur := d.Current(); cur != r.status.State {
		ctx := d.LastContext()
		r.mu.Lock()
		r.status = Status{
			State:       cur,
			Period:      ctx.Period,
			LastCSClock: ctx.LastCSClock,
			Intensities: ctx.Intensities,
		}
		r.mu.Unlock()
	}
}

// Status returns the most recent diagnostic snapshot. Safe to call from
// any goroutine while Run is looping.
func (r *Receiver) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Run executes the foreground loop until ctx is cancelled. The loop never
// blocks: it polls the frame buffer through the current state's Main,
// yielding the processor between iterations.
func (r *Receiver) Run(ctx context.Context) error {
	if _, err := r.Dispatcher(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.Tick()
		runtime.Gosched()
	}
}

// sinkByteWriter adapts the configured Sink to the per-byte writes
// Receiving emits, without double-wrapping sinks that already support
// them.
func sinkByteWriter(w io.Writer) io.ByteWriter {
	if bw, ok := w.(io.ByteWriter); ok {
		return bw
	}
	return byteWriter{w}
}

type byteWriter struct {
	w io.Writer
}

func (b byteWriter) WriteByte(c byte) error {
	_, err := b.w.Write([]byte{c})
	return err
}
