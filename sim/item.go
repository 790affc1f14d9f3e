// Defines the Item struct that models a single discrete workpiece flowing
// through the line. Tracks creation time, per-station start time, and lane.

package sim

import "fmt"

// Item models a single workpiece's lifecycle in the simulation.
// An item is immutable once created except for StartedAt, which is
// overwritten every time the item enters a processing slot. Ownership is
// exclusive: exactly one station's queue or in-flight slot holds an item
// until it is retired at a terminal station.
type Item struct {
	ID        int64   `json:"id"`         // sequence-assigned unique identifier
	CreatedAt float64 `json:"created_at"` // simulated time of admission at an entry station
	StartedAt float64 `json:"started_at"` // simulated time processing began at the current station
	Lane      int     `json:"lane"`       // lane the item was admitted into
}

func (it Item) String() string {
	return fmt.Sprintf("Item: (ID: %d, CreatedAt: %.2f, StartedAt: %.2f, Lane: %d)", it.ID, it.CreatedAt, it.StartedAt, it.Lane)
}
