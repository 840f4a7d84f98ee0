package dht

import (
	"fmt"
	"sync"
	"time"

	"github.com/gr-butler/agrinode/env"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

/*
 One exchange with a DHT11 on a single open-drain line:

   host    : low >= 18ms, release high 20-30us, switch to input
   sensor  : low 80us, high 80us (ack)
   sensor  : 40 bits, MSB first, each a 50us low followed by a
             26-28us high ('0') or 70us high ('1')
   data    : humidity int, humidity tenths, temp int, temp tenths, checksum

 A bit is classified by sampling the line once, a fixed settle time after
 the rising edge. Anything still high is a '1'.
*/

// Line is the part of a GPIO pin the decoder needs. gpio.PinIO satisfies it.
type Line interface {
	In(pull gpio.Pull, edge gpio.Edge) error
	Out(l gpio.Level) error
	Read() gpio.Level
}

type Decoder struct {
	line     Line
	clock    Clock
	critical Critical
	lock     sync.Mutex

	startLow     time.Duration
	releaseHigh  time.Duration
	settle       time.Duration
	levelTimeout time.Duration
}

type Option func(*Decoder)

func WithClock(c Clock) Option {
	return func(d *Decoder) { d.clock = c }
}

func WithCritical(c Critical) Option {
	return func(d *Decoder) { d.critical = c }
}

// WithLevelTimeout bounds every wait for a level change.
func WithLevelTimeout(t time.Duration) Option {
	return func(d *Decoder) { d.levelTimeout = t }
}

func NewDecoder(line Line, opts ...Option) *Decoder {
	d := &Decoder{
		line:         line,
		clock:        NewHostClock(clockwork.NewRealClock()),
		critical:     HostCritical(),
		startLow:     env.StartLow,
		releaseHigh:  env.ReleaseHigh,
		settle:       env.BitSettle,
		levelTimeout: env.LevelTimeout,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Read runs one complete session and returns the validated reading. There
// are no retries; a failed session leaves the line released high.
func (d *Decoder) Read() (Reading, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	defer d.idle()

	// wake the sensor
	if err := d.line.Out(gpio.Low); err != nil {
		return Reading{}, fmt.Errorf("dht: drive start pulse: %w", err)
	}

	frame, err := d.session()
	if err != nil {
		return Reading{}, err
	}
	logger.Debugf("Decoded from DHT11 [%d, %d, %d, %d, %d]", frame[0], frame[1], frame[2], frame[3], frame[4])

	return frameToReading(frame)
}

// session holds the start pulse, hands the line to the sensor and clocks in
// the 40 data bits. Entering the critical section can block for a while, so
// it is done while the start pulse is still being held low, where extra time
// is harmless. Keep logging out of here.
func (d *Decoder) session() (frame [5]byte, err error) {
	resume := d.critical.Suspend()
	defer resume()

	d.clock.Sleep(d.startLow)
	if err = d.line.Out(gpio.High); err != nil {
		return frame, fmt.Errorf("dht: release start pulse: %w", err)
	}
	d.clock.Sleep(d.releaseHigh)

	if err = d.line.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return frame, fmt.Errorf("dht: switch line to input: %w", err)
	}
	if d.line.Read() == gpio.High {
		return frame, ErrNoResponse
	}

	if err = d.waitWhile(gpio.Low, "ack low", -1); err != nil {
		return frame, err
	}
	if err = d.waitWhile(gpio.High, "ack high", -1); err != nil {
		return frame, err
	}

	for i := 0; i < env.BitsPerReading; i++ {
		if err = d.waitWhile(gpio.Low, "bit start", i); err != nil {
			return frame, err
		}
		d.clock.Sleep(d.settle)
		if d.line.Read() == gpio.High {
			frame[i/8] |= 1 << uint(7-i%8)
			if err = d.waitWhile(gpio.High, "bit high", i); err != nil {
				return frame, err
			}
		}
	}
	return frame, nil
}

func (d *Decoder) waitWhile(level gpio.Level, phase string, bit int) error {
	start := d.clock.Now()
	for d.line.Read() == level {
		if d.clock.Since(start) > d.levelTimeout {
			if bit < 0 {
				return fmt.Errorf("%w: line %v for more than %v during %s", ErrTimeout, level, d.levelTimeout, phase)
			}
			return fmt.Errorf("%w: line %v for more than %v during %s of bit %d", ErrTimeout, level, d.levelTimeout, phase, bit)
		}
	}
	return nil
}

// idle leaves the line driven high between sessions.
func (d *Decoder) idle() {
	_ = d.line.Out(gpio.High)
}
