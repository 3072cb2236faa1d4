package receiver

import (
	"bytes"
	"testing"

	"github.com/lumalink/lumalink/rxstate"
)

func TestDefaultConfigMatchesProtocol(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SysClockTickUs != 57 {
		t.Errorf("SysClockTickUs = %d", cfg.SysClockTickUs)
	}
	if cfg.NoiseTimeout() != 1000000 {
		t.Errorf("NoiseTimeout = %d", cfg.NoiseTimeout())
	}
	if cfg.CarrierLoss() != 16 {
		t.Errorf("CarrierLoss = %d", cfg.CarrierLoss())
	}
	cases := []struct {
		name string
		got  rxstate.Ratio
		want rxstate.Ratio
	}{
		{"sync timeout", cfg.SyncTimeoutRatio(), rxstate.SyncTimeoutRatio},
		{"end of carrier", cfg.EndOfCarrierRatio(), rxstate.EndOfCarrierRatio},
		{"phase delay", cfg.PhaseDelayRatio(), rxstate.PhaseDelayRatio},
		{"phase advance", cfg.PhaseAdvanceRatio(), rxstate.PhaseAdvanceRatio},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s ratio = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestZeroConfigFallsBackToDefaults(t *testing.T) {
	// A config file that sets none of the tunables must still yield the
	// protocol ratios, not divide-by-zero periods.
	var cfg ReceiverConfig
	if cfg.SyncTimeoutRatio() != rxstate.SyncTimeoutRatio {
		t.Error("zero sync ratio did not fall back")
	}
	if cfg.EndOfCarrierRatio() != rxstate.EndOfCarrierRatio {
		t.Error("zero grace ratio did not fall back")
	}
	if cfg.NoiseTimeout() != 1000000 {
		t.Error("zero noise timeout did not fall back")
	}
	if cfg.CarrierLoss() != 16 {
		t.Error("zero carrier-loss count did not fall back")
	}
}

func TestDispatcherRequiresHandles(t *testing.T) {
	r := &Receiver{}
	if _, err := r.Dispatcher(); err == nil {
		t.Fatal("no error with every handle missing")
	}
}

func TestSinkByteWriter(t *testing.T) {
	var buf bytes.Buffer
	// bytes.Buffer already writes bytes; it must be used directly.
	if _, ok := sinkByteWriter(&buf).(*bytes.Buffer); !ok {
		t.Error("ByteWriter sink was wrapped")
	}
	w := sinkByteWriter(writerOnly{&buf})
	if err := w.WriteByte(0xAB); err != nil {
		t.Fatal(err)
	}
	if got := buf.Bytes(); len(got) != 1 || got[0] != 0xAB {
		t.Fatalf("wrote %#v", got)
	}
}

type writerOnly struct{ w *bytes.Buffer }

func (w writerOnly) Write(p []byte) (int, error) { return w.w.Write(p) }
