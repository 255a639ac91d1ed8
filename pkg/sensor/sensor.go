package sensor

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Kind selects the calibration applied to a channel's raw code.
type Kind int

const (
	Voltage Kind = iota
	Current
)

func (k Kind) String() string {
	switch k {
	case Voltage:
		return "voltage"
	case Current:
		return "current"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Unit is the label printed next to a converted value.
func (k Kind) Unit() string {
	if k == Current {
		return "A"
	}
	return "V"
}

// Calibration from the MAX14001PMB circuit analysis. U11 measures voltage
// around a mid-scale offset; U51 measures current through its shunt with a
// 0.625V offset and a gain of 10 A/V.
const (
	voltageOffset = 511.06305173
	voltageGain   = 1.499118283

	currentLSB    = 0.001220703125 // 5V / 4096
	currentOffset = 0.625
	currentGain   = 10
)

// Convert applies the board calibration for kind to a raw ADC code.
func Convert(kind Kind, raw int) float64 {
	r := float64(raw)
	if kind == Current {
		// explicit conversion forces rounding and forbids a fused multiply-add
		scaled := float64(r * currentLSB)
		return (scaled - currentOffset) * currentGain
	}
	return (r - voltageOffset) / voltageGain
}

// ChannelSpec describes one monitored data source.
type ChannelSpec struct {
	Kind Kind
	Path string
}

type Reading struct {
	Channel ChannelSpec
	Raw     int
	Value   float64
}

// Quantity renders the value with an SI prefix and unit symbol.
func (r Reading) Quantity() string {
	if r.Channel.Kind == Current {
		return physic.ElectricCurrent(r.Value * float64(physic.Ampere)).String()
	}
	return physic.ElectricPotential(r.Value * float64(physic.Volt)).String()
}
