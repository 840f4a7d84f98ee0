package dht

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReading_Values(t *testing.T) {
	r := Reading{HumidityInt: 61, HumidityFrac: 4, TempInt: 22, TempFrac: 9}

	assert.InDelta(t, 61.4, r.Humidity(), 1e-9)
	assert.InDelta(t, 22.9, r.Temperature(), 1e-9)
	assert.Equal(t, "Temp=22.90 Humi=61.40%RH", r.String())
}

func TestFrameToReading_Checksum(t *testing.T) {
	// every checksum byte for a handful of payloads, including ones whose
	// sum wraps past 255
	payloads := [][4]byte{
		{0, 0, 0, 0},
		{50, 0, 25, 0},
		{99, 9, 50, 9},
		{200, 100, 3, 1},
		{255, 255, 255, 255},
	}
	for _, p := range payloads {
		want := uint8((int(p[0]) + int(p[1]) + int(p[2]) + int(p[3])) % 256)
		for sum := 0; sum < 256; sum++ {
			r, err := frameToReading([5]byte{p[0], p[1], p[2], p[3], byte(sum)})
			if uint8(sum) == want {
				require.NoError(t, err)
				assert.Equal(t, Reading{p[0], p[1], p[2], p[3]}, r)
				continue
			}
			require.ErrorIs(t, err, ErrChecksumMismatch)
			assert.Equal(t, Reading{}, r)
		}
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "ok", Kind(nil))
	assert.Equal(t, "checksum", Kind(ErrChecksumMismatch))
	assert.Equal(t, "line", Kind(assert.AnError))
}
