package dht

import "fmt"

// Reading is one validated frame from the sensor. The DHT11 sends the
// integer and tenths parts of each value as separate bytes.
type Reading struct {
	HumidityInt  uint8
	HumidityFrac uint8
	TempInt      uint8
	TempFrac     uint8
}

// Humidity returns relative humidity in %RH.
func (r Reading) Humidity() float64 {
	return float64(r.HumidityInt) + float64(r.HumidityFrac)/10.0
}

// Temperature returns degrees Celsius.
func (r Reading) Temperature() float64 {
	return float64(r.TempInt) + float64(r.TempFrac)/10.0
}

// Checksum is the low byte of the sum of the four data bytes.
func (r Reading) Checksum() uint8 {
	return r.HumidityInt + r.HumidityFrac + r.TempInt + r.TempFrac
}

func (r Reading) String() string {
	return fmt.Sprintf("Temp=%.2f Humi=%.2f%%RH", r.Temperature(), r.Humidity())
}

// frameToReading validates the checksum byte of a raw 5 byte frame.
func frameToReading(frame [5]byte) (Reading, error) {
	r := Reading{
		HumidityInt:  frame[0],
		HumidityFrac: frame[1],
		TempInt:      frame[2],
		TempFrac:     frame[3],
	}
	if sum := r.Checksum(); sum != frame[4] {
		return Reading{}, fmt.Errorf("%w: checksum from sensor(%v) != calculated checksum(%v=%v+%v+%v+%v)",
			ErrChecksumMismatch, frame[4], sum, frame[0], frame[1], frame[2], frame[3])
	}
	return r, nil
}
