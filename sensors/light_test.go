package sensors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

type fakeADC struct {
	sample analog.Sample
	err    error
}

func (f fakeADC) Read() (analog.Sample, error) {
	return f.sample, f.err
}

func TestLightSensor_Read(t *testing.T) {
	tests := []struct {
		name string
		raw  int32
		want uint16
	}{
		{"mid scale", 12000, 12000},
		{"zero", 0, 0},
		{"negative noise", -3, 0},
		{"above range", 70000, 65535},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLightSensor(fakeADC{sample: analog.Sample{V: 2 * physic.Volt, Raw: tt.raw}})
			got, err := l.Read()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLightSensor_ReadError(t *testing.T) {
	l := NewLightSensor(fakeADC{err: errors.New("i2c nack")})
	_, err := l.Read()
	assert.EqualError(t, err, "i2c nack")
}
