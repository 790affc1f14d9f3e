// Package sim provides the core tick-driven simulation engine for the
// production line.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - station.go: Station fields and the idle → queued → processing → blocked
//     status derivation
//   - line.go: the Line owner object, the per-tick push/pull/spawn algorithm,
//     and the item source
//   - topology.go: live topology edits (insert, remove, update) and the
//     cycle-defensive traversals
//
// # Architecture
//
// All mutable simulation state (topology, clock, metrics, id sequences) lives
// in a single Line value guarded by one mutex. Every tick, every topology
// edit, every control operation and every snapshot read is one atomic
// critical section; nothing outside this package can observe a
// partially-updated graph.
//
// Two goroutines touch a Line at runtime: the Driver (driver.go), which
// advances the clock and executes one tick at a fixed wall-clock cadence, and
// the transport layer's broadcaster, which only calls Snapshot. They share
// nothing but the guarded Line.
//
// Time is simulated seconds as float64. The Clock (clock.go) accumulates
// wall-clock deltas only while running, so time spent paused never counts as
// elapsed simulated time.
package sim
