package sensors

import (
	"math"

	"periph.io/x/conn/v3/analog"
)

type sampler interface {
	Read() (analog.Sample, error)
}

// LightSensor reads the raw ADC count across the light dependent resistor.
type LightSensor struct {
	adc sampler
}

func NewLightSensor(adc sampler) *LightSensor {
	return &LightSensor{adc: adc}
}

// Read returns the raw sample clamped to the uint16 range. The ADS1115 is
// differential so noise around 0V can read slightly negative.
func (l *LightSensor) Read() (uint16, error) {
	sample, err := l.adc.Read()
	if err != nil {
		return 0, err
	}
	switch {
	case sample.Raw < 0:
		return 0, nil
	case sample.Raw > math.MaxUint16:
		return math.MaxUint16, nil
	}
	return uint16(sample.Raw), nil
}
