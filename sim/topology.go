// topology.go
//
// Live topology edits and traversals. The graph is a flat station list with
// integer-id successor references resolved through the Line at use time, so
// add/remove/rewire never leave dangling pointers. All edits validate before
// mutating; a failed edit changes nothing.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// StationUpdate carries a partial update for Update. Nil pointer fields are
// left untouched. ClearSuccessor distinguishes "make terminal" from "leave
// the successor alone"; when set, Successor is ignored.
type StationUpdate struct {
	Name           *string
	ServiceTime    *float64
	Capacity       *int
	Lane           *int
	Successor      *int
	ClearSuccessor bool
}

// Insert adds a station to lane. With after set, the new station is spliced
// immediately behind it, inheriting the prior successor link when that
// successor is in the same lane (otherwise the new station is terminal).
// With after nil the station is appended at the lane's tail. next, when
// non-nil, overrides the inherited successor. Returns the new station's id.
func (l *Line) Insert(name string, serviceTime float64, capacity int, lane int, after, next *int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if serviceTime <= 0 {
		return 0, fmt.Errorf("%w: service time must be > 0, got %v", ErrInvalidArgument, serviceTime)
	}
	if capacity < 0 {
		return 0, fmt.Errorf("%w: capacity must be >= 0, got %d", ErrInvalidArgument, capacity)
	}

	var prev *Station
	if after != nil {
		var ok bool
		prev, ok = l.byID[*after]
		if !ok {
			return 0, fmt.Errorf("%w: insert-after station %d", ErrNotFound, *after)
		}
	} else {
		prev = l.tailStation(lane)
	}
	if next != nil {
		if _, ok := l.byID[*next]; !ok {
			return 0, fmt.Errorf("%w: successor station %d", ErrNotFound, *next)
		}
		if prev != nil && l.reaches(*next, prev.ID) {
			return 0, fmt.Errorf("%w: successor %d would form a cycle through station %d", ErrInvalidArgument, *next, prev.ID)
		}
	}

	id := l.nextStationID
	l.nextStationID++
	st := &Station{
		ID:          id,
		Name:        name,
		ServiceTime: serviceTime,
		Capacity:    capacity,
		Lane:        lane,
	}

	switch {
	case next != nil:
		n := *next
		st.Next = &n
	case prev != nil && after != nil:
		// Inherit the spliced link only within the lane.
		if old := prev.Next; old != nil {
			if succ, ok := l.byID[*old]; ok && succ.Lane == lane {
				n := *old
				st.Next = &n
			}
		}
	}
	if prev != nil {
		n := id
		prev.Next = &n
	}

	pos := len(l.stations)
	if prev != nil {
		for i, s := range l.stations {
			if s == prev {
				pos = i + 1
				break
			}
		}
	}
	l.stations = append(l.stations, nil)
	copy(l.stations[pos+1:], l.stations[pos:])
	l.stations[pos] = st
	l.byID[id] = st

	logrus.Infof("station %d (%s) inserted into lane %d", id, name, lane)
	return id, nil
}

// Remove deletes a station. Every upstream pointer targeting the victim is
// rewired to the victim's successor, the in-flight item is migrated into the
// downstream queue without a capacity re-check, and queued items are drained
// downstream. When the victim is terminal its items are retired as completed
// with cycle times measured at removal time.
func (l *Line) Remove(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	victim, ok := l.byID[id]
	if !ok {
		return fmt.Errorf("%w: station %d", ErrNotFound, id)
	}
	t := l.clock.Now()

	for _, st := range l.stations {
		if st.Next != nil && *st.Next == id {
			if victim.Next != nil {
				n := *victim.Next
				st.Next = &n
			} else {
				st.Next = nil
			}
		}
	}

	var succ *Station
	if victim.Next != nil {
		succ = l.byID[*victim.Next]
	}
	if item := victim.InFlight; item != nil {
		victim.InFlight = nil
		if succ != nil {
			succ.Queue.Enqueue(item)
		} else {
			l.metrics.RecordCompletion(t - item.CreatedAt)
		}
	}
	for victim.Queue.Len() > 0 {
		item := victim.Queue.Dequeue()
		if succ != nil {
			succ.Queue.Enqueue(item)
		} else {
			l.metrics.RecordCompletion(t - item.CreatedAt)
		}
	}

	for i, st := range l.stations {
		if st == victim {
			l.stations = append(l.stations[:i], l.stations[i+1:]...)
			break
		}
	}
	delete(l.byID, id)

	logrus.Infof("station %d (%s) removed", id, victim.Name)
	return nil
}

// Update applies a partial in-place mutation. All supplied fields are
// validated before any of them is applied.
func (l *Line) Update(id int, u StationUpdate) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.byID[id]
	if !ok {
		return fmt.Errorf("%w: station %d", ErrNotFound, id)
	}
	if u.ServiceTime != nil && *u.ServiceTime <= 0 {
		return fmt.Errorf("%w: service time must be > 0, got %v", ErrInvalidArgument, *u.ServiceTime)
	}
	if u.Capacity != nil && *u.Capacity < 0 {
		return fmt.Errorf("%w: capacity must be >= 0, got %d", ErrInvalidArgument, *u.Capacity)
	}
	if !u.ClearSuccessor && u.Successor != nil {
		if _, ok := l.byID[*u.Successor]; !ok {
			return fmt.Errorf("%w: successor station %d", ErrNotFound, *u.Successor)
		}
		if *u.Successor == id || l.reaches(*u.Successor, id) {
			return fmt.Errorf("%w: successor %d would form a cycle through station %d", ErrInvalidArgument, *u.Successor, id)
		}
	}

	if u.Name != nil {
		st.Name = *u.Name
	}
	if u.ServiceTime != nil {
		st.ServiceTime = *u.ServiceTime
	}
	if u.Capacity != nil {
		// Items over a reduced capacity are retained, never dropped; the
		// queue drains back into bound naturally.
		st.Capacity = *u.Capacity
	}
	if u.Lane != nil {
		st.Lane = *u.Lane
	}
	if u.ClearSuccessor {
		st.Next = nil
	} else if u.Successor != nil {
		n := *u.Successor
		st.Next = &n
	}
	return nil
}

// Successor returns the station's successor id, nil for a terminal station.
func (l *Line) Successor(id int) (*int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: station %d", ErrNotFound, id)
	}
	if st.Next == nil {
		return nil, nil
	}
	n := *st.Next
	return &n, nil
}

// EntryStations returns the ids of the lane's entry stations: stations not
// named as any same-lane station's successor.
func (l *Line) EntryStations(lane int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var ids []int
	for _, st := range l.entryStations(lane) {
		ids = append(ids, st.ID)
	}
	return ids
}

// TailStation returns the id of the station reached by following successor
// links from the lane's first entry station, or nil for an empty lane.
func (l *Line) TailStation(lane int) *int {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.tailStation(lane)
	if st == nil {
		return nil
	}
	id := st.ID
	return &id
}

// entryStations lists the lane's entry stations in edit order. Caller holds
// l.mu.
func (l *Line) entryStations(lane int) []*Station {
	referenced := make(map[int]bool)
	for _, st := range l.stations {
		if st.Lane == lane && st.Next != nil {
			referenced[*st.Next] = true
		}
	}
	var out []*Station
	for _, st := range l.stations {
		if st.Lane == lane && !referenced[st.ID] {
			out = append(out, st)
		}
	}
	return out
}

// tailStation follows successor links from the lane's first entry station
// until a terminal, unknown, or already-visited station. Caller holds l.mu.
func (l *Line) tailStation(lane int) *Station {
	entries := l.entryStations(lane)
	if len(entries) == 0 {
		return nil
	}
	st := entries[0]
	visited := make(map[int]bool)
	for st.Next != nil && !visited[st.ID] {
		visited[st.ID] = true
		next, ok := l.byID[*st.Next]
		if !ok {
			break
		}
		st = next
	}
	return st
}

// reaches reports whether target is reachable from the station with id from
// by following successor links. The walk is revisit-defensive. Caller holds
// l.mu.
func (l *Line) reaches(from, target int) bool {
	visited := make(map[int]bool)
	for id := from; !visited[id]; {
		if id == target {
			return true
		}
		visited[id] = true
		st, ok := l.byID[id]
		if !ok || st.Next == nil {
			return false
		}
		id = *st.Next
	}
	return false
}
