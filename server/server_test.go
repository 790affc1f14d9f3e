package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesim/linesim/sim"
)

func newTestServer(t *testing.T) (*Server, *sim.Line, *httptest.Server) {
	t.Helper()
	line := sim.NewLine(sim.DefaultConfig())
	stateFile := filepath.Join(t.TempDir(), "state.json")
	srv := New(line, "127.0.0.1:0", stateFile, time.Second)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, line, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestListStations_ReturnsReferenceLine(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/machines")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stations := decodeBody[[]sim.StationView](t, resp)
	require.Len(t, stations, 3)
	assert.Equal(t, "Cutting", stations[0].Name)
	assert.Equal(t, sim.StatusIdle, stations[0].Status)
}

func TestAddStation_SplicesIntoChain(t *testing.T) {
	_, line, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/add_machine", map[string]any{
		"name":            "Polishing",
		"service_time":    2.0,
		"capacity":        1,
		"insert_after_id": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	added := decodeBody[struct {
		ID int `json:"id"`
	}](t, resp)
	succ, err := line.Successor(1)
	require.NoError(t, err)
	require.NotNil(t, succ)
	assert.Equal(t, added.ID, *succ)
}

func TestAddStation_InvalidServiceTime_BadRequest(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/add_machine", map[string]any{
		"name":         "Broken",
		"service_time": 0,
		"capacity":     1,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[errorResponse](t, resp)
	assert.Equal(t, "invalid_argument", body.Kind)
	assert.NotEmpty(t, body.Error)
}

func TestUpdateStation_ExplicitNullNext_MakesTerminal(t *testing.T) {
	_, line, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/update_machine", json.RawMessage(`{"id": 1, "next": null}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	succ, err := line.Successor(1)
	require.NoError(t, err)
	assert.Nil(t, succ)
}

func TestUpdateStation_AbsentNext_LeavesSuccessor(t *testing.T) {
	_, line, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/update_machine", map[string]any{"id": 1, "name": "Sawing"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	succ, err := line.Successor(1)
	require.NoError(t, err)
	require.NotNil(t, succ, "absent next field must not rewire the chain")
	assert.Equal(t, 2, *succ)
}

func TestUpdateStation_UnknownID_NotFound(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/update_machine", map[string]any{"id": 42, "capacity": 5})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody[errorResponse](t, resp)
	assert.Equal(t, "not_found", body.Kind)
}

func TestRemoveStation_RewiresUpstream(t *testing.T) {
	_, line, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/remove_machine", map[string]any{"id": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	succ, err := line.Successor(1)
	require.NoError(t, err)
	require.NotNil(t, succ)
	assert.Equal(t, 3, *succ)
}

func TestControl_StartPauseReset(t *testing.T) {
	_, line, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/start_simulation", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.True(t, line.Running())

	resp = postJSON(t, ts.URL+"/pause_simulation", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.False(t, line.Running())

	resp = postJSON(t, ts.URL+"/reset_simulation", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	state, err := http.Get(ts.URL + "/state")
	require.NoError(t, err)
	snap := decodeBody[sim.Snapshot](t, state)
	assert.Zero(t, snap.Timestamp)
	assert.False(t, snap.Running)
	assert.Zero(t, snap.ItemsInSystem)
}

func TestState_ReturnsSnapshot(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/state")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	snap := decodeBody[sim.Snapshot](t, resp)
	require.Len(t, snap.Stations, 3)
	assert.Zero(t, snap.Throughput)
}

func TestSaveLoad_RoundTripOverHTTP(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/save_state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/load_state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestSaveState_WhileRunning_Conflict(t *testing.T) {
	_, line, ts := newTestServer(t)
	line.Start()

	resp := postJSON(t, ts.URL+"/save_state", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeBody[errorResponse](t, resp)
	assert.Equal(t, "invalid_state", body.Kind)
}

func TestLoadState_MissingFile_NotFound(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/load_state", map[string]any{"path": filepath.Join(t.TempDir(), "missing.json")})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody[errorResponse](t, resp)
	assert.Equal(t, "not_found", body.Kind)
}

func TestMetricsEndpoint_ServesGauges(t *testing.T) {
	srv, line, ts := newTestServer(t)

	// Gauges refresh from a snapshot the way the broadcaster does.
	srv.metrics.Observe(line.Snapshot(), 0)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "linesim_line_stations 3")
}

func TestMethodMismatch_NotAllowed(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/add_machine")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
