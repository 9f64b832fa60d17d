package guide

import "time"

// Clock is the time source used to stamp samples.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// WallClock reads the system clock.
var WallClock Clock = wallClock{}

// ManualClock only moves when advanced. Simulations use it to replay
// exposures faster than real time.
type ManualClock struct {
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (m *ManualClock) Now() time.Time { return m.now }

// Advance moves the clock forward.
func (m *ManualClock) Advance(seconds float64) {
	m.now = m.now.Add(time.Duration(seconds * float64(time.Second)))
}
