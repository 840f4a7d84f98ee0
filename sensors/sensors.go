package sensors

import (
	"fmt"

	"github.com/gr-butler/agrinode/env"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

/*
 * Sensors owns the hardware: the DHT11 data line and, when enabled, the
 * ADS1115 channel with the light dependent resistor.
 */

type Sensors struct {
	DHT   gpio.PinIO   // DHT11 single wire data line
	Light *LightSensor // nil unless enabled
	Bus   i2c.BusCloser
	args  env.Args
}

func NewSensors(args env.Args) *Sensors {
	return &Sensors{args: args}
}

func (s *Sensors) InitSensors() error {
	if _, err := host.Init(); err != nil {
		logger.Errorf("Failed to init host drivers [%v]", err)
		return err
	}

	pinName := env.DHTDataPin
	if s.args.Pin != nil && *s.args.Pin != "" {
		pinName = *s.args.Pin
	}
	p := gpioreg.ByName(pinName)
	if p == nil {
		logger.Errorf("Failed to find %v - DHT11 pin", pinName)
		return fmt.Errorf("gpio pin %q not found", pinName)
	}
	logger.Infof("%s: %s", p, p.Function())
	// idle state of the bus is high
	if err := p.Out(gpio.High); err != nil {
		logger.Errorf("Failed to drive DHT11 pin [%v]", err)
		return err
	}
	s.DHT = p

	if s.args.Light != nil && *s.args.Light {
		if err := s.initLight(); err != nil {
			return err
		}
	}

	logger.Info("Sensors initialized.")
	return nil
}

func (s *Sensors) initLight() error {
	bus, err := i2creg.Open("")
	if err != nil {
		logger.Errorf("Failed to open I²C [%v]", err)
		return err
	}
	s.Bus = bus

	opts := ads1x15.DefaultOpts
	opts.I2cAddress = env.LightADCAddress
	logger.Infof("Starting light sensor ADC I2C [%x]", opts.I2cAddress)
	adc, err := ads1x15.NewADS1115(bus, &opts)
	if err != nil {
		logger.Errorf("Failed to initialise ADS1115 [%v]", err)
		_ = bus.Close()
		return err
	}

	ch, err := adc.PinForChannel(ads1x15.Channel3, 5*physic.Volt, 1*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		logger.Errorf("Failed to open light channel [%v]", err)
		_ = bus.Close()
		return err
	}
	s.Light = NewLightSensor(ch)
	return nil
}

func (s *Sensors) Close() {
	if s.DHT != nil {
		_ = s.DHT.Halt()
	}
	if s.Bus != nil {
		_ = s.Bus.Close()
	}
}
