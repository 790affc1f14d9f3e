// Periodic snapshot push. The broadcaster reads a detached snapshot under
// the engine lock, then marshals and fans out with the lock released, so a
// slow subscriber can never stall a tick.

package server

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// broadcastLoop snapshots the line at the configured cadence, refreshes the
// Prometheus gauges, and hands the frame to the hub. Runs for process
// lifetime in its own goroutine, independent of the driver cadence.
func (s *Server) broadcastLoop() {
	logrus.Infof("snapshot broadcaster started (cadence %v)", s.broadcastInterval)
	ticker := time.NewTicker(s.broadcastInterval)
	defer ticker.Stop()
	for range ticker.C {
		snap := s.line.Snapshot()
		s.metrics.Observe(snap, s.hub.clientCount())
		data, err := json.Marshal(snap)
		if err != nil {
			logrus.Errorf("marshaling snapshot frame: %v", err)
			continue
		}
		select {
		case s.hub.broadcast <- data:
		default:
			// Hub backlog full; skip this frame, the next one supersedes it.
		}
	}
}
