// REST handlers. Request shapes follow the original control API: flat JSON
// bodies addressed by station id, partial updates with explicit-null
// successor support.

package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/linesim/linesim/sim"
)

// OptionalStationID distinguishes an absent "next" field from an explicit
// null. Absent leaves the successor untouched; null makes the station
// terminal.
type OptionalStationID struct {
	Set bool
	ID  *int
}

func (o *OptionalStationID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.ID = nil
		return nil
	}
	var id int
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	o.ID = &id
	return nil
}

type addStationRequest struct {
	Name          string  `json:"name"`
	ServiceTime   float64 `json:"service_time"`
	Capacity      int     `json:"capacity"`
	Lane          int     `json:"lane"`
	InsertAfterID *int    `json:"insert_after_id"`
	Next          *int    `json:"next"`
}

type updateStationRequest struct {
	ID          int               `json:"id"`
	Name        *string           `json:"name"`
	ServiceTime *float64          `json:"service_time"`
	Capacity    *int              `json:"capacity"`
	Lane        *int              `json:"lane"`
	Next        OptionalStationID `json:"next"`
}

type removeStationRequest struct {
	ID int `json:"id"`
}

// stateFileRequest optionally overrides the configured persistence target.
type stateFileRequest struct {
	Path string `json:"path"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding request body: %v", sim.ErrInvalidArgument, err)
	}
	return nil
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleListStations(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.line.Snapshot().Stations)
}

func (s *Server) handleAddStation(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req addStationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id, err := s.line.Insert(req.Name, req.ServiceTime, req.Capacity, req.Lane, req.InsertAfterID, req.Next)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		ID      int    `json:"id"`
	}{Message: "Station added", ID: id})
}

func (s *Server) handleUpdateStation(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req updateStationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	update := sim.StationUpdate{
		Name:        req.Name,
		ServiceTime: req.ServiceTime,
		Capacity:    req.Capacity,
		Lane:        req.Lane,
	}
	if req.Next.Set {
		if req.Next.ID == nil {
			update.ClearSuccessor = true
		} else {
			update.Successor = req.Next.ID
		}
	}
	if err := s.line.Update(req.ID, update); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Station updated"})
}

func (s *Server) handleRemoveStation(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req removeStationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.line.Remove(req.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Station removed"})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	s.line.Start()
	writeJSON(w, http.StatusOK, messageResponse{Message: "Simulation started"})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	s.line.Pause()
	writeJSON(w, http.StatusOK, messageResponse{Message: "Simulation paused"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	s.line.Reset()
	writeJSON(w, http.StatusOK, messageResponse{Message: "Simulation reset"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.line.Snapshot())
}

func (s *Server) handleSaveState(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	path := s.statePath(r)
	if err := s.line.SaveState(path); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "State saved to " + path})
}

func (s *Server) handleLoadState(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	path := s.statePath(r)
	if err := s.line.LoadState(path); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "State loaded from " + path})
}

// statePath returns the configured state file unless the request body names
// another. An empty or unreadable body is fine; persistence has a default.
func (s *Server) statePath(r *http.Request) string {
	var req stateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Path != "" {
		logrus.Debugf("state path override: %s", req.Path)
		return req.Path
	}
	return s.stateFile
}
