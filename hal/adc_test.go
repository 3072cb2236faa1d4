package hal

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/physic"
)

type stubVoltageSensor struct {
	v   physic.ElectricPotential
	err error
}

func (s stubVoltageSensor) Sense() (physic.ElectricPotential, error) { return s.v, s.err }

func TestPeriphAnalogInputScalesToCounts(t *testing.T) {
	// Half of a 3.3V full scale on a 13-bit range reads as half the count
	// range.
	a := NewPeriphAnalogInput(stubVoltageSensor{v: 1650 * physic.MilliVolt}, 3300*physic.MilliVolt, 1<<13)
	got, err := a.Sense()
	if err != nil {
		t.Fatal(err)
	}
	if got != 1<<12 {
		t.Fatalf("Sense = %d, want %d", got, 1<<12)
	}
}

func TestPeriphAnalogInputPropagatesErrors(t *testing.T) {
	sensorErr := errors.New("bus fault")
	a := NewPeriphAnalogInput(stubVoltageSensor{err: sensorErr}, 3300*physic.MilliVolt, 1<<13)
	if _, err := a.Sense(); !errors.Is(err, sensorErr) {
		t.Fatalf("err = %v, want %v", err, sensorErr)
	}
}
