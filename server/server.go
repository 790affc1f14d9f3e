// Package server provides the HTTP and WebSocket control plane around the
// simulation engine: station CRUD, start/pause/reset, state snapshots, JSON
// persistence, a periodic snapshot stream, and Prometheus exposition.
//
// The server never holds the engine lock itself; every handler goes through
// the Line's guarded methods, and the broadcaster reads a detached Snapshot
// before any network send.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/linesim/linesim/sim"
)

// Server wires the engine to its HTTP endpoints, the WebSocket hub, and the
// Prometheus registry.
type Server struct {
	line      *sim.Line
	hub       *wsHub
	metrics   *Metrics
	mux       *http.ServeMux
	stateFile string

	broadcastInterval time.Duration
	httpServer        *http.Server
}

// New builds a server for line. stateFile is the default persistence target;
// broadcastInterval is the snapshot push cadence (the reference is 1s).
func New(line *sim.Line, addr, stateFile string, broadcastInterval time.Duration) *Server {
	s := &Server{
		line:              line,
		hub:               newHub(),
		metrics:           NewMetrics(),
		mux:               http.NewServeMux(),
		stateFile:         stateFile,
		broadcastInterval: broadcastInterval,
	}

	s.mux.HandleFunc("/machines", s.handleListStations)
	s.mux.HandleFunc("/add_machine", s.handleAddStation)
	s.mux.HandleFunc("/update_machine", s.handleUpdateStation)
	s.mux.HandleFunc("/remove_machine", s.handleRemoveStation)
	s.mux.HandleFunc("/start_simulation", s.handleStart)
	s.mux.HandleFunc("/pause_simulation", s.handlePause)
	s.mux.HandleFunc("/reset_simulation", s.handleReset)
	s.mux.HandleFunc("/state", s.handleState)
	s.mux.HandleFunc("/save_state", s.handleSaveState)
	s.mux.HandleFunc("/load_state", s.handleLoadState)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.Handle("/metrics", s.metrics.Handler())

	s.httpServer = &http.Server{Addr: addr, Handler: s.mux}
	return s
}

// Handler exposes the route table; used by tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start launches the HTTP listener and the snapshot broadcaster. It does not
// block.
func (s *Server) Start() {
	go s.broadcastLoop()
	go func() {
		logrus.Infof("http server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("http server: %v", err)
		}
	}()
}

// errorResponse is the JSON body for all failed requests.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeError maps engine error kinds onto HTTP status codes and always
// surfaces the human-readable reason.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.Is(err, sim.ErrNotFound):
		status = http.StatusNotFound
		kind = "not_found"
	case errors.Is(err, sim.ErrInvalidArgument):
		status = http.StatusBadRequest
		kind = "invalid_argument"
	case errors.Is(err, sim.ErrInvalidState):
		status = http.StatusConflict
		kind = "invalid_state"
	}
	logrus.Debugf("request failed (%s): %v", kind, err)
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("encoding response: %v", err)
	}
}
