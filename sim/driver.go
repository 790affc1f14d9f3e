// driver.go
//
// The driver runs the simulation loop: one Advance per wall-clock interval,
// for the lifetime of the process. Pausing only freezes simulated time, it
// never stops the loop.

package sim

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Driver advances a Line at a fixed wall-clock cadence from a dedicated
// goroutine. It has no stop or cancellation path; there is exactly one per
// process and it lives as long as the process does.
type Driver struct {
	line     *Line
	interval time.Duration
}

// NewDriver returns a driver ticking every interval (the reference cadence
// is 100ms).
func NewDriver(line *Line, interval time.Duration) *Driver {
	return &Driver{line: line, interval: interval}
}

// Run loops forever, folding wall-clock deltas into the line on every tick.
// Call from its own goroutine.
func (d *Driver) Run() {
	logrus.Infof("driver loop started (cadence %v)", d.interval)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for now := range ticker.C {
		d.line.Advance(now)
	}
}
