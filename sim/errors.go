package sim

import "errors"

// Standard error variables for conditions reported across the engine API.
// Callers classify failures with errors.Is; all wrapping uses %w so the kind
// survives the chain.
var (
	// ErrNotFound reports an unknown station id or a missing persisted file.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument reports a rejected edit: non-positive service time,
	// negative buffer capacity, or a successor link that would form a cycle.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState reports an operation attempted in the wrong simulation
	// state, such as loading persisted state while the simulation is running.
	ErrInvalidState = errors.New("invalid state")
)
