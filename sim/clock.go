// Implements the simulation clock: simulated seconds that accumulate
// wall-clock deltas only while the simulation is running.

package sim

import "time"

// Clock is a monotonically increasing simulated-time counter. It is frozen
// while paused and rebaselined on every start, so wall-clock time spent
// paused never counts as elapsed simulated time. Clock is not goroutine-safe
// on its own; the owning Line's mutex guards it.
type Clock struct {
	now      float64   // simulated seconds since the last reset
	running  bool      // advancing iff true
	baseline time.Time // wall-clock instant of the last advance while running
}

// Start begins or resumes simulated-time advancement, rebaselining the
// wall-clock delta to wall. Starting an already running clock is a no-op.
func (c *Clock) Start(wall time.Time) {
	if c.running {
		return
	}
	c.running = true
	c.baseline = wall
}

// Pause freezes simulated time. Pausing an already paused clock is a no-op.
func (c *Clock) Pause() {
	c.running = false
}

// Advance adds the wall-clock delta since the previous advance to simulated
// time and returns the new reading. While paused it returns the frozen
// reading unchanged.
func (c *Clock) Advance(wall time.Time) float64 {
	if !c.running {
		return c.now
	}
	if d := wall.Sub(c.baseline).Seconds(); d > 0 {
		c.now += d
	}
	c.baseline = wall
	return c.now
}

// Now returns the current simulated time in seconds.
func (c *Clock) Now() float64 {
	return c.now
}

// Running reports whether simulated time is advancing.
func (c *Clock) Running() bool {
	return c.running
}

// Reset pauses the clock and returns simulated time to zero.
func (c *Clock) Reset() {
	c.now = 0
	c.running = false
}

// Restore sets the simulated time directly. Used when loading persisted
// state; the clock stays paused.
func (c *Clock) Restore(t float64) {
	c.now = t
	c.running = false
}
