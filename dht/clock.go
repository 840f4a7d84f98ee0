package dht

import (
	"runtime"
	"runtime/debug"
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the time source used while talking to the sensor. Sleep must be
// accurate to a few microseconds for durations below a millisecond.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
}

type hostClock struct {
	clockwork.Clock
}

// NewHostClock wraps c so that sub-millisecond sleeps spin on the clock
// instead of going through the runtime timer, which cannot wake a goroutine
// with microsecond precision.
func NewHostClock(c clockwork.Clock) Clock {
	return &hostClock{Clock: c}
}

func (h *hostClock) Sleep(d time.Duration) {
	if d >= time.Millisecond {
		h.Clock.Sleep(d)
		return
	}
	start := h.Clock.Now()
	for h.Clock.Since(start) < d {
	}
}

// Critical guards the timing sensitive part of a session. Suspend returns
// the function that ends the critical section; it must run on every path.
type Critical interface {
	Suspend() (resume func())
}

type hostCritical struct{}

// HostCritical pins the calling goroutine to its OS thread and stops the
// garbage collector for the duration of the section.
func HostCritical() Critical {
	return hostCritical{}
}

func (hostCritical) Suspend() func() {
	runtime.LockOSThread()
	gcPercent := debug.SetGCPercent(-1)
	return func() {
		debug.SetGCPercent(gcPercent)
		runtime.UnlockOSThread()
	}
}
