package scheduler

import (
	"math"
	"time"

	"github.com/gr-butler/agrinode/dht"
	"github.com/gr-butler/agrinode/env"
)

// Controller owns the reporting interval and the baseline reading it is
// adapted against. It is not safe for concurrent use; the scheduler loop is
// its only caller.
type Controller struct {
	interval time.Duration
	baseline dht.Reading
}

func NewController() *Controller {
	return &Controller{
		interval: env.IntervalMin,
	}
}

func (c *Controller) Interval() time.Duration {
	return c.interval
}

func (c *Controller) Baseline() dht.Reading {
	return c.baseline
}

// Update adapts the interval to r and makes r the new baseline.
//
// Any change in the integer part of humidity or temperature drops straight to
// the minimum interval, no change goes to the maximum. Very humid air then
// slows reporting a step, dry air speeds it up a step.
func (c *Controller) Update(r dht.Reading) time.Duration {
	if changed(c.baseline.HumidityInt, r.HumidityInt) || changed(c.baseline.TempInt, r.TempInt) {
		c.interval = env.IntervalMin
	} else {
		c.interval = env.IntervalMax
	}

	if r.HumidityInt > env.HumidityHigh {
		c.interval += env.IntervalStep
		if c.interval > env.IntervalMax {
			c.interval = env.IntervalMax
		}
	} else if r.HumidityInt < env.HumidityLow {
		c.interval -= env.IntervalStep
		if c.interval < env.IntervalMin {
			c.interval = env.IntervalMin
		}
	}

	c.baseline = r
	return c.interval
}

// changed compares whole units against a fractional threshold, so only an
// exact match counts as unchanged.
// TODO: compare the tenths bytes as well if the threshold is meant to be 0.3 units.
func changed(prev, cur uint8) bool {
	return math.Abs(float64(int(cur)-int(prev))) >= env.ChangeThreshold
}
