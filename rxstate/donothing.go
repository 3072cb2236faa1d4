package rxstate

import (
	"fmt"
	"io"
)

// DoNothing is the terminal diagnostic state: something reached a state no
// operational path should reach, and rather than guess at recovery it dumps
// the handoff Context and sits idle.
type DoNothing struct {
	out io.Writer
}

// NewDoNothing builds the DoNothing state, dumping the Context it's handed
// to out.
func NewDoNothing(out io.Writer) *DoNothing {
	return &DoNothing{out: out}
}

func (d *DoNothing) ID() ID { return IDDoNothing }

func (d *DoNothing) Init(prev ID, ctx Context) {
	if d.out == nil {
		return
	}
	fmt.Fprintf(d.out, "donothing: from=%s period=%d lastCSClock=%d intensities=%v\n",
		prev, ctx.Period, ctx.LastCSClock, ctx.Intensities)
}

func (d *DoNothing) Main() {}

func (d *DoNothing) Exit(next ID) Context { return Context{} }
