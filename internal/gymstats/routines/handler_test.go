package routines_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/workoutlog/internal/gymstats/repo"
	"github.com/2beens/workoutlog/internal/gymstats/routines"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(store repo.Store) *mux.Router {
	h := routines.NewHandler(routines.NewService(store))
	r := mux.NewRouter()
	r.HandleFunc("/routines", h.HandleList).Methods("GET")
	r.HandleFunc("/routines", h.HandleCreate).Methods("POST")
	r.HandleFunc("/routines/{id}", h.HandleGet).Methods("GET")
	r.HandleFunc("/routines/{id}", h.HandleUpdate).Methods("PUT")
	r.HandleFunc("/routines/{id}", h.HandleDelete).Methods("DELETE")
	r.HandleFunc("/routines/{id}/favorite", h.HandleSetFavorite).Methods("PUT")
	r.HandleFunc("/routines/{id}/archive", h.HandleSetArchived).Methods("PUT")
	r.HandleFunc("/routines/{id}/blocks/{blockId}/exercises", h.HandleAddExerciseToBlock).Methods("POST")
	return r
}

func serve(t *testing.T, router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RoutineLifecycle(t *testing.T) {
	store := repo.NewMemStore()
	router := newRouter(store)

	rec := serve(t, router, "POST", "/routines", repo.Routine{Day: "Monday"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, "POST", "/routines", newRoutine("Monday"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created repo.Routine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEqual(t, uuid.Nil, created.ID)
	path := "/routines/" + created.ID.String()

	rec = serve(t, router, "GET", path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, router, "GET", "/routines/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = serve(t, router, "GET", "/routines/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	created.Notes = "deload week"
	created.Blocks = created.Blocks[:1]
	rec = serve(t, router, "PUT", path, created)
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := store.GetRoutine(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "deload week", stored.Notes)
	assert.Len(t, stored.Blocks, 1)

	rec = serve(t, router, "PUT", path+"/favorite", routines.FlagRequest{Value: true})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serve(t, router, "GET", "/routines?favorites=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list routines.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	rec = serve(t, router, "PUT", path+"/archive", routines.FlagRequest{Value: true})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serve(t, router, "GET", "/routines", nil)
	list = routines.ListResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Total)

	rec = serve(t, router, "DELETE", path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serve(t, router, "DELETE", path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_HandleAddExerciseToBlock(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemStore()
	router := newRouter(store)

	library := &repo.Exercise{Name: "Face Pull", Reps: 15, Weight: 20}
	require.NoError(t, store.AddExercise(ctx, library))
	routine := newRoutine("Wednesday")
	require.NoError(t, store.AddRoutine(ctx, routine))
	path := "/routines/" + routine.ID.String() + "/blocks/" + routine.Blocks[1].ID.String() + "/exercises"

	rec := serve(t, router, "POST", path, routines.AddExerciseRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, "POST", path, routines.AddExerciseRequest{ExerciseID: uuid.New()})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, router, "POST", path, routines.AddExerciseRequest{ExerciseID: library.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var updated repo.Routine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Len(t, updated.Blocks[1].Exercises, 1)
	assert.Equal(t, "Face Pull", updated.Blocks[1].Exercises[0].Name)
}
