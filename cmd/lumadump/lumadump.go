// Show one or more receiver status fields at repeated intervals, while the
// receiver runs against real hardware with its byte stream discarded.
//
// Usage:
//
//	lumadump N [FIELD ...]
//
// where
//   - N is the number of milliseconds to wait between dumps
//   - FIELD names a receiver.Status field (State, Period, LastCSClock,
//     Intensities); with no fields given, all of them are shown
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"reflect"
	"strconv"
	"time"

	"periph.io/x/host/v3"

	"github.com/lumalink/lumalink/hal"
	"github.com/lumalink/lumalink/receiver"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lumadump: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: %s N [FIELD ...]", os.Args[0])
	}
	intervalMs, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalMs <= 0 {
		return fmt.Errorf("bad interval %q", os.Args[1])
	}
	fields := os.Args[2:]
	st := reflect.TypeOf(receiver.Status{})
	if len(fields) == 0 {
		for i := 0; i < st.NumField(); i++ {
			fields = append(fields, st.Field(i).Name)
		}
	}
	for _, f := range fields {
		if _, ok := st.FieldByName(f); !ok {
			return fmt.Errorf("no status field %q", f)
		}
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("initializing periph host: %w", err)
	}
	cfg, profile, ok := receiver.LoadConfig()
	if !ok {
		fmt.Fprintln(os.Stderr, "lumadump: no lumalink.toml found, using defaults")
	}
	cs, err := hal.OpenCarrierSensePin(cfg.CSPin)
	if err != nil {
		return err
	}
	pd, err := hal.OpenIIOAnalogInput(cfg.PDPin)
	if err != nil {
		return err
	}

	clock := hal.NewSystemClock(cfg.SysClockTickUs)
	clock.Start()
	defer clock.Stop()

	r := &receiver.Receiver{
		Clock:   clock,
		Timer:   hal.NewChipTimer(),
		CS:      cs,
		PD:      pd,
		Sink:    discardWriter{},
		Config:  cfg,
		Profile: profile,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go r.Run(ctx)

	fmt.Printf("link: %s (nominal %g chips/s)\n", profile.TransmitterModel, profile.NominalChipRate)
	tick := time.NewTicker(time.Duration(intervalMs) * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
		v := reflect.ValueOf(r.Status())
		for _, f := range fields {
			fmt.Printf("%s = %v  ", f, v.FieldByName(f).Interface())
		}
		fmt.Println()
	}
}

// discardWriter is io.Discard with the ByteWriter fast path, so the decoded
// stream costs nothing while dumping.
type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
func (discardWriter) WriteByte(byte) error        { return nil }

var _ io.ByteWriter = discardWriter{}
