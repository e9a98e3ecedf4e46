package game

import "time"

// Clock paces the tick loop. One Tick is one rendered frame and one
// environment step.
type Clock interface {
	Tick()
}

// fixedClock ticks at a fixed frame rate.
type fixedClock struct {
	interval time.Duration
	last     time.Time
}

func NewFixedClock(fps int) Clock {
	return &fixedClock{interval: time.Second / time.Duration(fps)}
}

func (c *fixedClock) Tick() {
	now := time.Now()
	if !c.last.IsZero() {
		if wait := c.interval - now.Sub(c.last); wait > 0 {
			time.Sleep(wait)
			now = now.Add(wait)
		}
	}
	c.last = now
}

// ManualClock never waits, for tests, headless collection and driving the
// loop from an external frame callback.
type ManualClock struct{}

func (ManualClock) Tick() {}

var _ Clock = ManualClock{}
