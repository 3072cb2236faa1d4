package hal

import (
	"sync"

	"periph.io/x/conn/v3/physic"
)

// AnalogInput is the photodiode sample source: one signed ADC-resolution
// sample per call.
type AnalogInput interface {
	Sense() (int32, error)
}

// voltageSensor is the narrow periph surface an ADC-backed photodiode front
// end needs to expose: an instantaneous voltage reading. External ADC
// drivers (e.g. an SPI/I2C ADC chip reached through periph's conn package)
// implement this directly.
type voltageSensor interface {
	Sense() (physic.ElectricPotential, error)
}

// PeriphAnalogInput adapts a periph voltage sensor into the signed ADC
// counts the decoder works in.
type PeriphAnalogInput struct {
	sensor    voltageSensor
	fullScale physic.ElectricPotential // voltage corresponding to the max ADC count
	maxCount  int32                    // e.g. 1<<13 for a 14-bit signed ADC
}

// NewPeriphAnalogInput wraps sensor, scaling its readings to ADC counts in
// [-maxCount, maxCount] given the sensor's full-scale voltage.
func NewPeriphAnalogInput(sensor voltageSensor, fullScale physic.ElectricPotential, maxCount int32) *PeriphAnalogInput {
	return &PeriphAnalogInput{sensor: sensor, fullScale: fullScale, maxCount: maxCount}
}

// Sense reads one sample and scales it to signed ADC counts.
func (a *PeriphAnalogInput) Sense() (int32, error) {
	v, err := a.sensor.Sense()
	if err != nil {
		return 0, err
	}
	if a.fullScale == 0 {
		return 0, nil
	}
	return int32(int64(v) * int64(a.maxCount) / int64(a.fullScale)), nil
}

// SimulatedAnalogInput is a queue of preloaded samples, used by tests to
// drive the decoder without real hardware.
type SimulatedAnalogInput struct {
	mu      sync.Mutex
	samples []int32
	idle    int32 // value returned once the queue is drained
}

// NewSimulatedAnalogInput returns a source that is empty (returns idle on
// every call) until Feed is used to enqueue samples.
func NewSimulatedAnalogInput(idle int32) *SimulatedAnalogInput {
	return &SimulatedAnalogInput{idle: idle}
}

// Feed appends samples to the queue, consumed in order by Sense.
func (s *SimulatedAnalogInput) Feed(samples ...int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, samples...)
}

// Sense returns the next queued sample, or the idle value if the queue is
// empty.
func (s *SimulatedAnalogInput) Sense() (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.samples) == 0 {
		return s.idle, nil
	}
	v := s.samples[0]
	s.samples = s.samples[1:]
	return v, nil
}
