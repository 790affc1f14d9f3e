// line.go
//
// Line is the owner object that holds all mutable simulation state and the
// per-tick state-advance algorithm: complete-and-push (tail to head), pull,
// then spawn.

package sim

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Line holds the topology graph, the simulation clock, the metrics
// accumulator, and the id sequences, all guarded by one mutex. Every tick,
// topology edit, control operation, snapshot read, and persistence call runs
// as a single atomic critical section on that mutex.
type Line struct {
	mu sync.Mutex

	stations []*Station       // edit order; lanes chain through Next ids
	byID     map[int]*Station // id lookup, kept in sync with stations

	clock   Clock
	metrics Metrics

	nextStationID int
	nextItemID    int64
}

// NewLine builds a line from the configured stations. Stations sharing a
// lane are chained in listed order; each lane's last station is terminal.
// The config must have passed Validate.
func NewLine(cfg *Config) *Line {
	l := &Line{
		byID:          make(map[int]*Station),
		nextStationID: 1,
	}
	lastInLane := make(map[int]*Station)
	for _, sc := range cfg.Stations {
		st := &Station{
			ID:          l.nextStationID,
			Name:        sc.Name,
			ServiceTime: sc.ServiceTime,
			Capacity:    sc.Capacity,
			Lane:        sc.Lane,
		}
		l.nextStationID++
		if prev := lastInLane[sc.Lane]; prev != nil {
			id := st.ID
			prev.Next = &id
		}
		lastInLane[sc.Lane] = st
		l.stations = append(l.stations, st)
		l.byID[st.ID] = st
	}
	return l
}

// Advance folds the wall-clock delta into simulated time and executes one
// full tick. While paused it is a no-op; the driver keeps calling regardless.
func (l *Line) Advance(wall time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.clock.Running() {
		return
	}
	t := l.clock.Advance(wall)
	l.tick(t)
}

// tick runs one state advance at simulated time t. Caller holds l.mu.
//
// Pass order matters: completions are evaluated tail to head so downstream
// space freed this tick is visible to upstream stations in the same tick,
// then pulls run head to tail, then the source admits new items.
func (l *Line) tick(t float64) {
	for i := len(l.stations) - 1; i >= 0; i-- {
		l.completeAndPush(l.stations[i], t)
	}
	for _, st := range l.stations {
		l.pull(st, t)
	}
	l.spawn(t)
}

// completeAndPush retires or forwards st's in-flight item once it has
// accumulated its full service time. A finished item that cannot move into a
// full downstream buffer stays in the slot and marks the station blocked; no
// work is ever dropped.
func (l *Line) completeAndPush(st *Station, t float64) {
	item := st.InFlight
	if item == nil {
		return
	}
	if !st.finished(t) {
		// A service-time edit can un-finish a previously blocked item.
		st.Blocked = false
		return
	}
	if st.Next == nil {
		st.InFlight = nil
		st.Completed++
		st.BusyTime += st.ServiceTime
		st.Blocked = false
		l.metrics.RecordCompletion(t - item.CreatedAt)
		logrus.Debugf("[tick %08.2f] station %d (%s): item %d retired", t, st.ID, st.Name, item.ID)
		return
	}
	succ, ok := l.byID[*st.Next]
	if !ok {
		// Dangling successor after a concurrent edit: skip this station for
		// the tick rather than aborting the loop.
		logrus.Warnf("[tick %08.2f] station %d (%s): dangling successor %d", t, st.ID, st.Name, *st.Next)
		return
	}
	if succ.Queue.Len() < succ.Capacity {
		st.InFlight = nil
		succ.Queue.Enqueue(item)
		st.Completed++
		st.BusyTime += st.ServiceTime
		st.Blocked = false
		logrus.Debugf("[tick %08.2f] station %d (%s): item %d pushed to station %d", t, st.ID, st.Name, item.ID, succ.ID)
	} else {
		st.Blocked = true
	}
}

// pull moves the head of st's queue into the empty processing slot and
// stamps the item's start time. Blocked stations never pull.
func (l *Line) pull(st *Station, t float64) {
	if st.Blocked || st.InFlight != nil || st.Queue.Len() == 0 {
		return
	}
	item := st.Queue.Dequeue()
	item.StartedAt = t
	st.InFlight = item
}

// spawn admits at most one new item per entry station per tick, bounded by
// each entry station's spare buffer capacity.
func (l *Line) spawn(t float64) {
	for _, lane := range l.lanes() {
		for _, st := range l.entryStations(lane) {
			if st.Queue.Len() >= st.Capacity {
				continue
			}
			l.nextItemID++
			it := &Item{ID: l.nextItemID, CreatedAt: t, Lane: lane}
			st.Queue.Enqueue(it)
			l.metrics.RecordSpawn()
		}
	}
}

// lanes returns the distinct lane identifiers in first-seen station order.
func (l *Line) lanes() []int {
	seen := make(map[int]bool)
	var out []int
	for _, st := range l.stations {
		if !seen[st.Lane] {
			seen[st.Lane] = true
			out = append(out, st.Lane)
		}
	}
	return out
}

// Start begins or resumes simulated-time advancement.
func (l *Line) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock.Start(time.Now())
	logrus.Info("simulation started")
}

// Pause freezes simulated time; the driver loop keeps running.
func (l *Line) Pause() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock.Pause()
	logrus.Info("simulation paused")
}

// Running reports whether simulated time is advancing.
func (l *Line) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clock.Running()
}

// Reset pauses the simulation, zeroes the clock, metrics and item sequence,
// and clears every station's mutable state. Topology is preserved.
func (l *Line) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock.Reset()
	l.metrics.Reset()
	l.nextItemID = 0
	for _, st := range l.stations {
		st.Queue = ItemQueue{}
		st.InFlight = nil
		st.Completed = 0
		st.BusyTime = 0
		st.Blocked = false
	}
	logrus.Info("simulation reset")
}

// itemsInSystem sums all queue and in-flight occupancy. Caller holds l.mu.
func (l *Line) itemsInSystem() int {
	n := 0
	for _, st := range l.stations {
		n += st.Queue.Len()
		if st.InFlight != nil {
			n++
		}
	}
	return n
}
