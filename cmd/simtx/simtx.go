// simtx replays a simulated transmission (preamble, level check, payload,
// carrier loss) through the complete receiver state machine and prints what
// comes out the other end. No hardware involved; useful for poking at the
// link before wiring anything up.
//
// Usage:
//
//	simtx [-period us] [-drift us] [-edges n] [message ...]
package main

import (
	"bytes"
	"flag"
	"fmt"
	"strings"

	"github.com/lumalink/lumalink/hal"
	"github.com/lumalink/lumalink/receiver"
	"github.com/lumalink/lumalink/sim"
)

func main() {
	period := flag.Uint64("period", 3333, "chip period announced by the preamble, in µs")
	drift := flag.Uint64("drift", 0, "actual data chip period in µs (0 = no drift)")
	edges := flag.Int("edges", 128, "number of preamble edges")
	flag.Parse()

	msg := strings.Join(flag.Args(), " ")
	if msg == "" {
		msg = "hello, light"
	}

	world := sim.NewWorld(0)
	tx := sim.Transmission{
		Period:        hal.SystemTime(*period),
		DataPeriod:    hal.SystemTime(*drift),
		PreambleEdges: *edges,
		Payload:       []byte(msg),
	}
	pd, end := tx.Build(world, 1000)

	var out bytes.Buffer
	r := &receiver.Receiver{
		Clock:   world.Clock,
		Timer:   world.Timer,
		CS:      world.CS,
		PD:      pd,
		Sink:    &out,
		Config:  receiver.DefaultConfig(),
		Profile: receiver.DefaultProfile(),
	}
	if _, err := r.Dispatcher(); err != nil {
		fmt.Println(err)
		return
	}

	// Run well past the last chip so carrier loss returns the receiver to
	// Waiting before we look at the result.
	world.Run(end+40*hal.SystemTime(*period), r.Tick)

	fmt.Printf("sent:     %q\n", msg)
	fmt.Printf("received: %q\n", out.String())
	fmt.Printf("final state: %v\n", r.Status().State)
}
