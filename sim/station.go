// Defines the Station struct that models one processing stage of the line:
// a fixed service time, a bounded input buffer, and a single processing slot.

package sim

import "fmt"

// StationStatus represents the derived state of a station.
type StationStatus string

const (
	StatusIdle       StationStatus = "idle"       // no queued or in-flight item
	StatusQueued     StationStatus = "queued"     // items waiting, none in flight
	StatusProcessing StationStatus = "processing" // one item in the slot
	StatusBlocked    StationStatus = "blocked"    // finished item stuck behind a full downstream buffer
)

// Station is one processing stage in the topology graph. The successor link
// is a plain station id resolved through the Line at use time, so edits never
// leave dangling pointers behind.
//
// Mutable per-tick state: the input queue (FIFO, length <= Capacity except
// transiently after a capacity reduction), at most one in-flight item,
// cumulative completed count, cumulative busy time, and the blocked flag.
// Blocked holds exactly when the in-flight item has finished its service time
// but the successor's queue is at capacity; a blocked station never pulls new
// work.
type Station struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Next        *int    `json:"next"`         // successor station id, nil = terminal/sink
	ServiceTime float64 `json:"service_time"` // simulated seconds, strictly positive
	Capacity    int     `json:"capacity"`     // input buffer bound, non-negative
	Lane        int     `json:"lane"`         // partition into independent parallel networks

	Queue     ItemQueue `json:"-"`
	InFlight  *Item     `json:"-"`
	Completed int       `json:"completed"`
	BusyTime  float64   `json:"busy_time"`
	Blocked   bool      `json:"blocked"`
}

// Status derives the station's externally visible state. Blocked wins over
// processing; otherwise the slot, then the queue, decides.
func (s *Station) Status() StationStatus {
	switch {
	case s.Blocked:
		return StatusBlocked
	case s.InFlight != nil:
		return StatusProcessing
	case s.Queue.Len() > 0:
		return StatusQueued
	default:
		return StatusIdle
	}
}

// Progress returns the in-flight item's completion fraction at simulated
// time t, clamped to [0, 1]. Returns 0 when the slot is empty.
func (s *Station) Progress(t float64) float64 {
	if s.InFlight == nil || s.ServiceTime <= 0 {
		return 0
	}
	p := (t - s.InFlight.StartedAt) / s.ServiceTime
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// finished reports whether the in-flight item has accumulated its full
// service time by simulated time t.
func (s *Station) finished(t float64) bool {
	return s.InFlight != nil && t-s.InFlight.StartedAt >= s.ServiceTime
}

func (s *Station) String() string {
	next := "terminal"
	if s.Next != nil {
		next = fmt.Sprint(*s.Next)
	}
	return fmt.Sprintf("Station: (ID: %d, Name: %s, Next: %s, Status: %s)", s.ID, s.Name, next, s.Status())
}
