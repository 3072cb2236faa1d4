package rxstate

// State is implemented by each of the receiver's states. A state owns its
// ISR-like callbacks (timer, carrier-sense) strictly between Init and Exit;
// Exit is obligated to stop/detach everything it armed in Init before
// returning.
type State interface {
	// ID returns this state's identifier.
	ID() ID

	// Init runs in foreground context when the dispatcher notices a
	// transition into this state. prev is the state being left; ctx is
	// whatever that state's Exit produced (the zero Context if prev is
	// None).
	Init(prev ID, ctx Context)

	// Main runs once per dispatcher iteration while this state is current.
	// It must not block.
	Main()

	// Exit runs in foreground context when the dispatcher notices a
	// transition away from this state, before the next state's Init. next
	// is the state being entered.
	Exit(next ID) Context
}

// Dispatcher drives the states from the foreground loop: notice a state
// change, call the outgoing state's exit and the incoming state's init
// (threading Context between them), then call the current state's main.
// States themselves set the next state (via Register.Set) from any context;
// the dispatcher only notices at its next Tick.
type Dispatcher struct {
	reg     *Register
	states  map[ID]State
	prev    ID
	lastCtx Context
}

// NewDispatcher builds a dispatcher over reg, indexing states by their ID.
// It is a programming error for two states to report the same ID, or for
// Tick to observe a current state with no registered State.
func NewDispatcher(reg *Register, states ...State) *Dispatcher {
	m := make(map[ID]State, len(states))
	for _, s := range states {
		m[s.ID()] = s
	}
	return &Dispatcher{reg: reg, states: m, prev: IDNone}
}

// Tick runs one iteration of the foreground loop: transition handling (if
// any), then the current state's Main.
func (d *Dispatcher) Tick() {
	current := d.reg.Get()
	if d.prev != current {
		var ctx Context
		if d.prev != IDNone {
			ctx = d.states[d.prev].Exit(current)
		}
		d.states[current].Init(d.prev, ctx)
		d.prev = current
		d.lastCtx = ctx
	}
	d.states[current].Main()
}

// Current returns the dispatcher's most recently observed state.
func (d *Dispatcher) Current() ID {
	return d.prev
}

// LastContext returns the Context handed across the most recent transition.
// Diagnostic only; like Tick, it must be called from the foreground loop's
// goroutine.
func (d *Dispatcher) LastContext() Context {
	return d.lastCtx
}
