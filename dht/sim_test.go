package dht

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// segment is one stretch of constant level driven by the simulated sensor.
type segment struct {
	level gpio.Level
	dur   time.Duration
}

// simLine plays back a sensor waveform in virtual time. Every Read costs
// pollCost, Sleep advances time exactly. It implements both Line and Clock.
type simLine struct {
	epoch    time.Time
	now      time.Duration
	pollCost time.Duration

	input    bool
	inputAt  time.Duration
	waveform []segment

	outs  []gpio.Level
	reads int
}

func newSimLine(waveform []segment) *simLine {
	return &simLine{
		epoch:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		pollCost: time.Microsecond,
		waveform: waveform,
	}
}

func (s *simLine) In(pull gpio.Pull, edge gpio.Edge) error {
	s.input = true
	s.inputAt = s.now
	return nil
}

func (s *simLine) Out(l gpio.Level) error {
	s.input = false
	s.outs = append(s.outs, l)
	return nil
}

func (s *simLine) Read() gpio.Level {
	s.reads++
	level := s.levelAt(s.now)
	s.now += s.pollCost
	return level
}

func (s *simLine) levelAt(t time.Duration) gpio.Level {
	if !s.input {
		if len(s.outs) == 0 {
			return gpio.High
		}
		return s.outs[len(s.outs)-1]
	}
	offset := t - s.inputAt
	for _, seg := range s.waveform {
		if offset < seg.dur {
			return seg.level
		}
		offset -= seg.dur
	}
	// pulled up once the sensor lets go
	return gpio.High
}

func (s *simLine) Now() time.Time {
	return s.epoch.Add(s.now)
}

func (s *simLine) Since(t time.Time) time.Duration {
	return s.Now().Sub(t)
}

func (s *simLine) Sleep(d time.Duration) {
	s.now += d
}

// countingCritical records Suspend/resume pairs.
type countingCritical struct {
	suspended int
	resumed   int
}

func (c *countingCritical) Suspend() func() {
	c.suspended++
	return func() { c.resumed++ }
}

// slowCritical costs stall of simulated time on entry.
type slowCritical struct {
	line    *simLine
	stall   time.Duration
	resumed int
}

func (c *slowCritical) Suspend() func() {
	c.line.now += c.stall
	return func() { c.resumed++ }
}

// encodeFrame renders a full sensor response for the given 5 bytes.
func encodeFrame(frame [5]byte) []segment {
	w := []segment{
		{gpio.Low, 80 * time.Microsecond},
		{gpio.High, 80 * time.Microsecond},
	}
	for _, b := range frame {
		for i := 7; i >= 0; i-- {
			w = append(w, segment{gpio.Low, 50 * time.Microsecond})
			if b&(1<<uint(i)) != 0 {
				w = append(w, segment{gpio.High, 70 * time.Microsecond})
			} else {
				w = append(w, segment{gpio.High, 26 * time.Microsecond})
			}
		}
	}
	return append(w, segment{gpio.Low, 50 * time.Microsecond})
}

func frameFor(r Reading) [5]byte {
	return [5]byte{r.HumidityInt, r.HumidityFrac, r.TempInt, r.TempFrac, r.Checksum()}
}

func newSimDecoder(waveform []segment) (*Decoder, *simLine, *countingCritical) {
	line := newSimLine(waveform)
	crit := &countingCritical{}
	return NewDecoder(line, WithClock(line), WithCritical(crit)), line, crit
}
