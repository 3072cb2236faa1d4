package hal

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// IIOAnalogInput reads photodiode samples from a Linux industrial-I/O ADC
// channel through sysfs, one attribute file per channel, the same
// file-per-attribute surface sysfs exposes for GPIO and LEDs.
// Raw counts come back exactly as the ADC produced them, so no scaling is
// applied here.
type IIOAnalogInput struct {
	path string
}

// NewIIOAnalogInput wraps the given in_voltageN_raw attribute path.
func NewIIOAnalogInput(path string) *IIOAnalogInput {
	return &IIOAnalogInput{path: path}
}

// OpenIIOAnalogInput resolves spec of the form "device:channel" (e.g. "0:3"
// for /sys/bus/iio/devices/iio:device0/in_voltage3_raw) and verifies the
// attribute exists.
func OpenIIOAnalogInput(spec string) (*IIOAnalogInput, error) {
	dev, ch, ok := strings.Cut(spec, ":")
	if !ok {
		return nil, fmt.Errorf("hal: IIO input spec %q is not device:channel", spec)
	}
	d, err := strconv.Atoi(dev)
	if err != nil {
		return nil, fmt.Errorf("hal: IIO device in %q: %w", spec, err)
	}
	c, err := strconv.Atoi(ch)
	if err != nil {
		return nil, fmt.Errorf("hal: IIO channel in %q: %w", spec, err)
	}
	a := NewIIOAnalogInput(fmt.Sprintf("/sys/bus/iio/devices/iio:device%d/in_voltage%d_raw", d, c))
	if _, err := os.Stat(a.path); err != nil {
		return nil, fmt.Errorf("hal: IIO attribute %s: %w", a.path, err)
	}
	return a, nil
}

// Sense reads one raw ADC count from the channel attribute.
func (a *IIOAnalogInput) Sense() (int32, error) {
	b, err := os.ReadFile(a.path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("hal: parsing %s: %w", a.path, err)
	}
	return int32(v), nil
}
