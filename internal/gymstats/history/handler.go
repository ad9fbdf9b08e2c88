package history

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/repo"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ListResponse struct {
	Workouts []repo.CompletedWorkout `json:"workouts"`
	Total    int                     `json:"total"`
}

type DeleteWorkoutResponse struct {
	DeletedID uuid.UUID `json:"deletedId"`
}

type Handler struct {
	store    historyStore
	analyzer *Analyzer
}

func NewHandler(store historyStore) *Handler {
	return &Handler{
		store:    store,
		analyzer: NewAnalyzer(store),
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.list")
	defer span.End()

	query := r.URL.Query()
	from, to, err := timeRange(query)
	if err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}
	params := repo.WorkoutParams{
		From:         from,
		To:           to,
		OnlyFinished: query.Get("finished") == "true",
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			http.Error(w, "error, limit invalid", http.StatusBadRequest)
			return
		}
		params.Limit = limit
	}

	workouts, err := handler.store.ListCompletedWorkouts(ctx, params)
	if err != nil {
		log.Errorf("failed to list completed workouts: %s", err)
		http.Error(w, "failed to list workouts", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListResponse{
		Workouts: workouts,
		Total:    len(workouts),
	}, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.get")
	defer span.End()

	id, ok := workoutID(w, r)
	if !ok {
		return
	}

	workout, err := handler.store.GetCompletedWorkout(ctx, id)
	if err != nil {
		writeStoreError(w, id, err)
		return
	}
	pkg.WriteJSON(w, workout, http.StatusOK)
}

// HandleDelete removes the workout, its blocks and exercises. Progress entries
// recorded from it are kept.
func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.delete")
	defer span.End()

	id, ok := workoutID(w, r)
	if !ok {
		return
	}

	if err := handler.store.DeleteCompletedWorkout(ctx, id); err != nil {
		writeStoreError(w, id, err)
		return
	}

	log.Debugf("completed workout deleted: %s", id)
	pkg.WriteJSON(w, DeleteWorkoutResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleAvgBlockDuration(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.avg-block-duration")
	defer span.End()

	from, to, err := timeRange(r.URL.Query())
	if err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := handler.analyzer.AvgBlockDuration(ctx, from, to)
	if err != nil {
		log.Errorf("failed to get avg block duration: %s", err)
		http.Error(w, "failed to get avg block duration", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, resp, http.StatusOK)
}

// timeRange reads the optional from/to query params, either RFC 3339 or a plain date.
func timeRange(query url.Values) (from, to *time.Time, err error) {
	parse := func(name string) (*time.Time, error) {
		value := query.Get(name)
		if value == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return &t, nil
		}
		t, err := time.Parse(time.DateOnly, value)
		if err != nil {
			return nil, fmt.Errorf("%s invalid", name)
		}
		return &t, nil
	}

	if from, err = parse("from"); err != nil {
		return nil, nil, err
	}
	if to, err = parse("to"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func workoutID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, id uuid.UUID, err error) {
	if errors.Is(err, repo.ErrWorkoutNotFound) {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}
	log.Errorf("completed workout %s: %s", id, err)
	http.Error(w, "workout request failed", http.StatusInternalServerError)
}
