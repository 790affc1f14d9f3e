// snapshot.go
//
// Projects the mutable line into an immutable view for external consumers.
// Nothing in a Snapshot aliases engine state, so it is safe to hand to the
// transport layer and serialize outside the lock.

package sim

// ItemView exposes the renderable part of an in-flight item: its id and the
// completion fraction. No other item state leaves the engine.
type ItemView struct {
	ID       int64   `json:"item_id"`
	Progress float64 `json:"progress"` // clamped to [0, 1]
}

// StationView is the read-only projection of one station.
type StationView struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Next        *int          `json:"next"` // nil = terminal
	Lane        int           `json:"lane"`
	Status      StationStatus `json:"status"`
	InFlight    *ItemView     `json:"in_flight,omitempty"`
	QueueLength int           `json:"queue_length"`
	Capacity    int           `json:"capacity"`
	ServiceTime float64       `json:"service_time"`
	Completed   int           `json:"completed"`
	Utilization float64       `json:"utilization"` // busy time / elapsed simulated time
	Blocked     bool          `json:"blocked"`
}

// Snapshot is the aggregate read-only view pushed to listeners and served by
// the state endpoint.
type Snapshot struct {
	Timestamp      float64       `json:"timestamp"` // simulated seconds
	Running        bool          `json:"running"`
	ItemsInSystem  int           `json:"items_in_system"`
	TotalSpawned   int           `json:"total_spawned"`
	TotalCompleted int           `json:"total_completed"`
	Throughput     float64       `json:"throughput"` // completed per simulated second
	AvgCycleTime   float64       `json:"avg_cycle_time"`
	P95CycleTime   float64       `json:"p95_cycle_time"`
	Stations       []StationView `json:"stations"`
}

// Snapshot builds the aggregate view under the engine lock. The result holds
// no references into the line.
func (l *Line) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := l.clock.Now()
	snap := Snapshot{
		Timestamp:      t,
		Running:        l.clock.Running(),
		ItemsInSystem:  l.itemsInSystem(),
		TotalSpawned:   l.metrics.TotalSpawned,
		TotalCompleted: l.metrics.TotalCompleted,
		Throughput:     l.metrics.Throughput(t),
		AvgCycleTime:   l.metrics.AvgCycleTime(),
		P95CycleTime:   l.metrics.P95CycleTime(),
		Stations:       make([]StationView, 0, len(l.stations)),
	}
	for _, st := range l.stations {
		view := StationView{
			ID:          st.ID,
			Name:        st.Name,
			Lane:        st.Lane,
			Status:      st.Status(),
			QueueLength: st.Queue.Len(),
			Capacity:    st.Capacity,
			ServiceTime: st.ServiceTime,
			Completed:   st.Completed,
			Blocked:     st.Blocked,
		}
		if st.Next != nil {
			n := *st.Next
			view.Next = &n
		}
		if st.InFlight != nil {
			view.InFlight = &ItemView{ID: st.InFlight.ID, Progress: st.Progress(t)}
		}
		if t > 0 {
			view.Utilization = st.BusyTime / t
		}
		snap.Stations = append(snap.Stations, view)
	}
	return snap
}
