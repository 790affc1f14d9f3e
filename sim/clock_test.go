package sim

import (
	"testing"
	"time"
)

func TestClock_Advance_AccumulatesOnlyWhileRunning(t *testing.T) {
	// GIVEN a started clock
	var c Clock
	base := time.Now()
	c.Start(base)

	// WHEN the clock advances by 2s of wall time
	got := c.Advance(base.Add(2 * time.Second))

	// THEN simulated time reads 2s
	if got != 2.0 {
		t.Errorf("Advance: got %v, want 2.0", got)
	}
}

func TestClock_Advance_Paused_IsFrozen(t *testing.T) {
	// GIVEN a clock paused at 2s
	var c Clock
	base := time.Now()
	c.Start(base)
	c.Advance(base.Add(2 * time.Second))
	c.Pause()

	// WHEN wall time moves on while paused
	got := c.Advance(base.Add(10 * time.Second))

	// THEN simulated time is unchanged
	if got != 2.0 {
		t.Errorf("Advance while paused: got %v, want 2.0", got)
	}
}

func TestClock_Start_RebaselinesAfterPause(t *testing.T) {
	// GIVEN a clock that ran 2s, then sat paused for 60s of wall time
	var c Clock
	base := time.Now()
	c.Start(base)
	c.Advance(base.Add(2 * time.Second))
	c.Pause()

	// WHEN the clock resumes and advances 1s later
	c.Start(base.Add(62 * time.Second))
	got := c.Advance(base.Add(63 * time.Second))

	// THEN the paused 60s never counted; only 2s + 1s elapsed
	if got != 3.0 {
		t.Errorf("Advance after resume: got %v, want 3.0", got)
	}
}

func TestClock_Start_AlreadyRunning_KeepsBaseline(t *testing.T) {
	// GIVEN a running clock
	var c Clock
	base := time.Now()
	c.Start(base)

	// WHEN Start is called again mid-run
	c.Start(base.Add(5 * time.Second))
	got := c.Advance(base.Add(6 * time.Second))

	// THEN the original baseline still applies
	if got != 6.0 {
		t.Errorf("Advance: got %v, want 6.0", got)
	}
}

func TestClock_Reset_ZeroesAndPauses(t *testing.T) {
	var c Clock
	base := time.Now()
	c.Start(base)
	c.Advance(base.Add(5 * time.Second))

	c.Reset()

	if c.Now() != 0 {
		t.Errorf("Now after reset: got %v, want 0", c.Now())
	}
	if c.Running() {
		t.Error("Running after reset: got true, want false")
	}
}

func TestClock_Restore_SetsTimePaused(t *testing.T) {
	var c Clock
	c.Start(time.Now())

	c.Restore(42.5)

	if c.Now() != 42.5 {
		t.Errorf("Now after restore: got %v, want 42.5", c.Now())
	}
	if c.Running() {
		t.Error("Restore must leave the clock paused")
	}
}
