// Tracks line-wide throughput metrics: items spawned, items completed, and
// the per-item cycle-time history.

package sim

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics about the simulation. CycleTimes is
// append-only while the simulation runs; derived statistics are computed on
// demand from the full history.
type Metrics struct {
	TotalSpawned   int       // items admitted at entry stations
	TotalCompleted int       // items retired at terminal stations
	CycleTimes     []float64 // per-item completion time - creation time, simulated seconds
}

// RecordSpawn counts one item admitted into the line.
func (m *Metrics) RecordSpawn() {
	m.TotalSpawned++
}

// RecordCompletion counts one retired item and appends its cycle time.
func (m *Metrics) RecordCompletion(cycleTime float64) {
	m.TotalCompleted++
	m.CycleTimes = append(m.CycleTimes, cycleTime)
}

// AvgCycleTime returns the mean of all recorded cycle times, 0 if none.
func (m *Metrics) AvgCycleTime() float64 {
	if len(m.CycleTimes) == 0 {
		return 0
	}
	return stat.Mean(m.CycleTimes, nil)
}

// P95CycleTime returns the 95th-percentile cycle time, 0 if none recorded.
func (m *Metrics) P95CycleTime() float64 {
	if len(m.CycleTimes) == 0 {
		return 0
	}
	sorted := make([]float64, len(m.CycleTimes))
	copy(sorted, m.CycleTimes)
	sort.Float64s(sorted)
	return stat.Quantile(0.95, stat.Empirical, sorted, nil)
}

// Throughput returns completed items per simulated second over elapsed, or 0
// when no simulated time has elapsed.
func (m *Metrics) Throughput(elapsed float64) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(m.TotalCompleted) / elapsed
}

// Reset clears all totals and the cycle-time history.
func (m *Metrics) Reset() {
	m.TotalSpawned = 0
	m.TotalCompleted = 0
	m.CycleTimes = nil
}
