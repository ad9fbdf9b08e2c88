package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/workoutlog/internal/config"
	"github.com/2beens/workoutlog/internal/gymstats/history"
	"github.com/2beens/workoutlog/internal/gymstats/progress"
	"github.com/2beens/workoutlog/internal/gymstats/repo"
	"github.com/2beens/workoutlog/internal/gymstats/session"
	"github.com/2beens/workoutlog/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientSecret = "test-secret"

func newTestServer(t *testing.T) (*Server, *mux.Router) {
	t.Helper()

	cfg, err := config.Parse("development", `
[development]
host = "localhost"
port = 9000
store_backend = "memory"
stats_cache_size_mb = 1
tick_interval_ms = 60000
view_transition_delay_ms = 1
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
`)
	require.NoError(t, err)

	s, err := NewServer(context.Background(), NewServerParams{
		Config:       cfg,
		ClientSecret: testClientSecret,
		VersionInfo:  "test-version",
	})
	require.NoError(t, err)
	t.Cleanup(s.controller.Close)

	router, err := s.routerSetup()
	require.NoError(t, err)
	return s, router
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set(middleware.ClientTokenHeader, testClientSecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestServer_Version(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set("User-Agent", "test-agent")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "test-version", rr.Body.String())
}

func TestServer_RequiresToken(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/routines", nil)
	req.Header.Set("User-Agent", "test-agent")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestServer_UnknownPath(t *testing.T) {
	_, router := newTestServer(t)
	rr := doRequest(t, router, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_WorkoutFlow(t *testing.T) {
	s, router := newTestServer(t)

	// exercise library
	rr := doRequest(t, router, http.MethodPost, "/exercises", repo.Exercise{
		Name:         "Squat",
		Reps:         5,
		Weight:       100,
		MuscleGroups: []string{"legs"},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	// routine with one block of two sets, no rest
	rr = doRequest(t, router, http.MethodPost, "/routines", repo.Routine{
		Day:          "Leg day",
		MuscleGroups: []string{"legs"},
		Blocks: []repo.Block{
			{
				Name: "Squats",
				Sets: 2,
				Exercises: []repo.Exercise{
					{Name: "Squat", Reps: 5, Weight: 110},
				},
			},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var routine repo.Routine
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &routine))

	rr = doRequest(t, router, http.MethodPost, "/session/start", session.StartRequest{RoutineID: routine.ID})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var state session.State
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, session.StatusActive, state.Status)
	assert.Equal(t, "Leg day - legs", state.RoutineName)

	rr = doRequest(t, router, http.MethodPost, "/session/sets", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = doRequest(t, router, http.MethodPost, "/session/sets", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, session.StatusCompleted, state.Status)
	require.NotNil(t, state.Summary)

	// wait for the pending store writes and events
	s.controller.Flush()

	rr = doRequest(t, router, http.MethodGet, "/history/workouts?finished=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var workouts history.ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &workouts))
	require.Equal(t, 1, workouts.Total)
	assert.Equal(t, "Leg day - legs", workouts.Workouts[0].RoutineName)
	require.Len(t, workouts.Workouts[0].Blocks, 1)

	rr = doRequest(t, router, http.MethodGet, "/progress?exercise=squat", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var entries progress.ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Equal(t, 1, entries.Total)
	assert.Equal(t, 110.0, entries.Entries[0].Weight)
	assert.NotNil(t, entries.Entries[0].ExerciseID)

	rr = doRequest(t, router, http.MethodPost, "/session/summary/close", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, session.StatusIdle, state.Status)

	rr = doRequest(t, router, http.MethodGet, "/history/events/list/page/1/size/10", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
