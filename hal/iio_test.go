package hal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIIOAnalogInputReadsRawCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in_voltage0_raw")
	if err := os.WriteFile(path, []byte("1234\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := NewIIOAnalogInput(path)
	got, err := a.Sense()
	if err != nil {
		t.Fatal(err)
	}
	if got != 1234 {
		t.Fatalf("Sense = %d, want 1234", got)
	}

	if err := os.WriteFile(path, []byte("-27\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, _ = a.Sense(); got != -27 {
		t.Fatalf("Sense = %d, want -27", got)
	}
}

func TestIIOAnalogInputBadContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in_voltage0_raw")
	if err := os.WriteFile(path, []byte("not a number"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewIIOAnalogInput(path).Sense(); err == nil {
		t.Fatal("no error for unparseable attribute")
	}
}

func TestOpenIIOAnalogInputSpecParsing(t *testing.T) {
	for _, bad := range []string{"", "0", "a:b", "0:x"} {
		if _, err := OpenIIOAnalogInput(bad); err == nil {
			t.Errorf("spec %q accepted", bad)
		}
	}
}
