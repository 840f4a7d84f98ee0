package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/gr-butler/agrinode/dht"
	"github.com/gr-butler/agrinode/env"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

// Decoder runs one sensor session. *dht.Decoder satisfies it.
type Decoder interface {
	Read() (dht.Reading, error)
}

// Transport delivers one telemetry payload to the network.
type Transport interface {
	Send(ctx context.Context, payload []byte) error
}

// LightSensor returns a raw ambient light sample.
type LightSensor interface {
	Read() (uint16, error)
}

// Indicator is flashed after a record has been delivered.
type Indicator interface {
	Flash()
}

type Config struct {
	Version   string
	Tick      time.Duration
	Clock     clockwork.Clock
	Light     LightSensor
	Indicator Indicator
}

// Status is a snapshot of the loop for the web handler.
type Status struct {
	Reading      dht.Reading
	HaveReading  bool
	Light        uint16
	Interval     time.Duration
	LastAttempt  time.Time
	LastError    string
	Reads        int
	Failures     int
	SendFailures int
}

type Scheduler struct {
	decoder   Decoder
	transport Transport
	light     LightSensor
	indicator Indicator
	clock     clockwork.Clock
	tick      time.Duration
	version   string

	cadence     *Controller
	lastAttempt time.Time

	statusLock sync.Mutex
	status     Status
}

func New(decoder Decoder, transport Transport, cfg Config) *Scheduler {
	s := &Scheduler{
		decoder:   decoder,
		transport: transport,
		light:     cfg.Light,
		indicator: cfg.Indicator,
		clock:     cfg.Clock,
		tick:      cfg.Tick,
		version:   cfg.Version,
		cadence:   NewController(),
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.tick <= 0 {
		s.tick = env.Tick
	}
	s.status.Interval = s.cadence.Interval()
	Prom_reportInterval.Set(s.cadence.Interval().Seconds())
	return s
}

// Run polls on a fixed tick until ctx is cancelled. A sensor session, once
// started, always runs to completion before the next tick is looked at.
func (s *Scheduler) Run(ctx context.Context) error {
	logger.Infof("Starting DHT11 scheduler, tick [%v] interval [%v]", s.tick, s.cadence.Interval())
	ticker := s.clock.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("DHT11 scheduler stopped")
			return ctx.Err()
		case now := <-ticker.Chan():
			s.iterate(ctx, now)
		}
	}
}

// iterate reads the sensor if the interval has elapsed and reports whether
// it did.
func (s *Scheduler) iterate(ctx context.Context, now time.Time) bool {
	if !s.lastAttempt.IsZero() && now.Sub(s.lastAttempt) < s.cadence.Interval() {
		return false
	}
	s.lastAttempt = now

	reading, err := s.decoder.Read()
	if err != nil {
		// the baseline and interval stay as they were
		kind := dht.Kind(err)
		logger.Warnf("DHT11 read failed [%v] kind [%v]", err, kind)
		Prom_decodeFailures.WithLabelValues(kind).Inc()
		s.updateStatus(func(st *Status) {
			st.LastAttempt = now
			st.LastError = err.Error()
			st.Failures++
		})
		return true
	}

	light := s.readLight()
	sendErr := s.report(ctx, reading, light)

	prev := s.cadence.Baseline()
	interval := s.cadence.Update(reading)
	logger.Infof("%v light [%d], was [%v], next read in [%v]", reading, light, prev, interval)

	Prom_temperature.Set(reading.Temperature())
	Prom_humidity.Set(reading.Humidity())
	Prom_light.Set(float64(light))
	Prom_reportInterval.Set(interval.Seconds())

	s.updateStatus(func(st *Status) {
		st.Reading = reading
		st.HaveReading = true
		st.Light = light
		st.Interval = interval
		st.LastAttempt = now
		st.LastError = ""
		st.Reads++
		if sendErr != nil {
			st.LastError = sendErr.Error()
			st.SendFailures++
		}
	})
	return true
}

// report builds and sends the telemetry record. A failed send is not
// retried; the reading still counts as observed.
func (s *Scheduler) report(ctx context.Context, reading dht.Reading, light uint16) error {
	payload, err := NewTelemetry(s.version, reading, light).Marshal()
	if err != nil {
		logger.Errorf("Failed to encode telemetry [%v]", err)
		Prom_sendFailures.Inc()
		return err
	}

	if err := s.transport.Send(ctx, payload); err != nil {
		logger.Errorf("Failed to send telemetry [%v] \n [%s]", err, payload)
		Prom_sendFailures.Inc()
		return err
	}
	logger.Debugf("Node send, size: [%d], data: [%s]", len(payload), payload)

	if s.indicator != nil {
		s.indicator.Flash()
	}
	return nil
}

func (s *Scheduler) readLight() uint16 {
	if s.light == nil {
		return 0
	}
	v, err := s.light.Read()
	if err != nil {
		logger.Debugf("Error reading light value [%v]", err)
		return 0
	}
	return v
}

func (s *Scheduler) updateStatus(f func(st *Status)) {
	s.statusLock.Lock()
	defer s.statusLock.Unlock()
	f(&s.status)
}

func (s *Scheduler) Status() Status {
	s.statusLock.Lock()
	defer s.statusLock.Unlock()
	return s.status
}
