// lumarx runs the visible-light receiver on real hardware: it resolves the
// carrier-sense and photodiode inputs named in lumalink.toml, then streams
// decoded bytes to stdout until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"periph.io/x/host/v3"

	"github.com/lumalink/lumalink/hal"
	"github.com/lumalink/lumalink/receiver"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lumarx: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("initializing periph host: %w", err)
	}
	cfg, profile, ok := receiver.LoadConfig()
	if !ok {
		fmt.Fprintln(os.Stderr, "lumarx: no lumalink.toml found, using defaults")
	}

	cs, err := hal.OpenCarrierSensePin(cfg.CSPin)
	if err != nil {
		return err
	}
	pd, err := hal.OpenIIOAnalogInput(cfg.PDPin)
	if err != nil {
		return err
	}
	debug, err := hal.OpenDebugClockPin(cfg.DebugClockPin)
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
		Sink:    os.Stdout,
		Config:  cfg,
		Profile: profile,
	}
	if debug != nil {
		r.Debug = debug
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
