package led

import (
	"sync"
	"time"

	"github.com/gr-butler/agrinode/env"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

type output interface {
	Out(l gpio.Level) error
}

type LED struct {
	Name    string
	flash   time.Duration
	blink   chan bool
	done    chan struct{}
	once    sync.Once
	gpioPin output
}

// NewLED looks the pin up by name. A missing pin gives an LED that does
// nothing, the node works without it.
func NewLED(name string, GPIOPin string) *LED {
	logger.Infof("Creating new LED on pin [%v] called [%v]", GPIOPin, name)
	p := gpioreg.ByName(GPIOPin)
	if p == nil {
		logger.Errorf("Failed to find %v pin", GPIOPin)
		return newLED(name, nil)
	}
	return newLED(name, p)
}

func newLED(name string, pin output) *LED {
	l := &LED{
		Name:    name,
		flash:   env.LEDFlashDuration,
		blink:   make(chan bool, 1),
		done:    make(chan struct{}),
		gpioPin: pin,
	}
	if l.gpioPin == nil {
		return l
	}
	_ = l.gpioPin.Out(gpio.Low)

	go func() {
		for {
			select {
			case <-l.blink:
				l.pulse()
			case <-l.done:
				_ = l.gpioPin.Out(gpio.Low)
				return
			}
		}
	}()
	return l
}

// Flash queues a flash without waiting for it. A request made while one is
// already queued is dropped.
func (l *LED) Flash() {
	if l.gpioPin == nil {
		return
	}
	select {
	case l.blink <- true:
	default:
		logger.Debugf("LED [%v] busy", l.Name)
	}
}

// Close stops the flash goroutine and leaves the LED off.
func (l *LED) Close() {
	if l.gpioPin == nil {
		return
	}
	l.once.Do(func() { close(l.done) })
}

func (l *LED) pulse() {
	_ = l.gpioPin.Out(gpio.High)
	time.Sleep(l.flash)
	_ = l.gpioPin.Out(gpio.Low)
}
