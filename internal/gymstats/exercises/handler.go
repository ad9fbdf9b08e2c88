package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/workoutlog/internal/gymstats/repo"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=exercises_test

type libraryStore interface {
	AddExercise(ctx context.Context, exercise *repo.Exercise) error
	UpdateExercise(ctx context.Context, exercise *repo.Exercise) error
	DeleteExercise(ctx context.Context, id uuid.UUID) error
	GetExercise(ctx context.Context, id uuid.UUID) (*repo.Exercise, error)
	ListExercises(ctx context.Context, params repo.ExerciseParams) ([]repo.Exercise, error)
}

type DeleteExerciseResponse struct {
	DeletedID uuid.UUID `json:"deletedId"`
}

type ListResponse struct {
	Exercises []repo.Exercise `json:"exercises"`
	Total     int             `json:"total"`
}

// Handler serves the exercise library. Exercises added to routine blocks are
// copies and are managed through the routines API.
type Handler struct {
	store libraryStore
}

func NewHandler(store libraryStore) *Handler {
	return &Handler{
		store: store,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.add")
	defer span.End()

	exercise, ok := decodeExercise(w, r)
	if !ok {
		return
	}
	exercise.ID = uuid.Nil

	if err := handler.store.AddExercise(ctx, exercise); err != nil {
		log.Errorf("failed to add new exercise [%s]: %s", exercise.Name, err)
		http.Error(w, "error, failed to add new exercise", http.StatusInternalServerError)
		return
	}

	log.Debugf("new library exercise added: %s [%s]", exercise.Name, exercise.ID)
	pkg.WriteJSON(w, exercise, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.get")
	defer span.End()

	id, ok := exerciseID(w, r)
	if !ok {
		return
	}

	exercise, err := handler.store.GetExercise(ctx, id)
	if err != nil {
		writeStoreError(w, id, err)
		return
	}
	pkg.WriteJSON(w, exercise, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	params := repo.ExerciseParams{
		Name:        r.URL.Query().Get("name"),
		MuscleGroup: r.URL.Query().Get("muscleGroup"),
	}
	if params.MuscleGroup != "" && !IsValidMuscleGroup(params.MuscleGroup) {
		http.Error(w, "error, unknown muscle group", http.StatusBadRequest)
		return
	}

	exercises, err := handler.store.ListExercises(ctx, params)
	if err != nil {
		log.Errorf("failed to list exercises: %s", err)
		http.Error(w, "failed to list exercises", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListResponse{
		Exercises: exercises,
		Total:     len(exercises),
	}, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.update")
	defer span.End()

	id, ok := exerciseID(w, r)
	if !ok {
		return
	}
	exercise, ok := decodeExercise(w, r)
	if !ok {
		return
	}
	exercise.ID = id

	if err := handler.store.UpdateExercise(ctx, exercise); err != nil {
		writeStoreError(w, id, err)
		return
	}
	pkg.WriteJSON(w, exercise, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.delete")
	defer span.End()

	id, ok := exerciseID(w, r)
	if !ok {
		return
	}

	if err := handler.store.DeleteExercise(ctx, id); err != nil {
		writeStoreError(w, id, err)
		return
	}

	log.Debugf("library exercise deleted: %s", id)
	pkg.WriteJSON(w, DeleteExerciseResponse{DeletedID: id}, http.StatusOK)
}

func decodeExercise(w http.ResponseWriter, r *http.Request) (*repo.Exercise, bool) {
	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return nil, false
	}

	var exercise repo.Exercise
	if err := json.NewDecoder(r.Body).Decode(&exercise); err != nil {
		log.Tracef("exercise, unmarshal json params: %s", err)
		http.Error(w, "invalid exercise", http.StatusBadRequest)
		return nil, false
	}
	if err := normalize(&exercise); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return &exercise, true
}

func exerciseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
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
	if errors.Is(err, repo.ErrExerciseNotFound) {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}
	log.Errorf("exercise %s: %s", id, err)
	http.Error(w, "exercise request failed", http.StatusInternalServerError)
}
