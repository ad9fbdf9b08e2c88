package routines

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

type ListResponse struct {
	Routines []repo.Routine `json:"routines"`
	Total    int            `json:"total"`
}

type FlagRequest struct {
	Value bool `json:"value"`
}

type AddExerciseRequest struct {
	ExerciseID uuid.UUID `json:"exerciseId"`
}

type DeleteRoutineResponse struct {
	DeletedID uuid.UUID `json:"deletedId"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.list")
	defer span.End()

	routines, err := handler.service.List(ctx, repo.RoutineParams{
		OnlyFavorites:   r.URL.Query().Get("favorites") == "true",
		IncludeArchived: r.URL.Query().Get("archived") == "true",
	})
	if err != nil {
		log.Errorf("failed to list routines: %s", err)
		http.Error(w, "failed to list routines", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListResponse{
		Routines: routines,
		Total:    len(routines),
	}, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.create")
	defer span.End()

	routine, ok := decodeRoutine(w, r)
	if !ok {
		return
	}
	routine.ID = uuid.Nil

	if err := handler.service.Create(ctx, routine); err != nil {
		writeError(w, "add routine", err)
		return
	}

	pkg.WriteJSON(w, routine, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.get")
	defer span.End()

	id, ok := idFromVars(w, r, "id")
	if !ok {
		return
	}

	routine, err := handler.service.Get(ctx, id)
	if err != nil {
		writeError(w, "get routine", err)
		return
	}
	pkg.WriteJSON(w, routine, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.update")
	defer span.End()

	id, ok := idFromVars(w, r, "id")
	if !ok {
		return
	}
	routine, ok := decodeRoutine(w, r)
	if !ok {
		return
	}
	routine.ID = id

	if err := handler.service.Update(ctx, routine); err != nil {
		writeError(w, "update routine", err)
		return
	}
	pkg.WriteJSON(w, routine, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.delete")
	defer span.End()

	id, ok := idFromVars(w, r, "id")
	if !ok {
		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		writeError(w, "delete routine", err)
		return
	}
	pkg.WriteJSON(w, DeleteRoutineResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleSetFavorite(w http.ResponseWriter, r *http.Request) {
	handler.handleFlag(w, r, "handler.routines.favorite", handler.service.SetFavorite)
}

func (handler *Handler) HandleSetArchived(w http.ResponseWriter, r *http.Request) {
	handler.handleFlag(w, r, "handler.routines.archive", handler.service.SetArchived)
}

func (handler *Handler) HandleAddExerciseToBlock(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.addExercise")
	defer span.End()

	routineID, ok := idFromVars(w, r, "id")
	if !ok {
		return
	}
	blockID, ok := idFromVars(w, r, "blockId")
	if !ok {
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}
	var req AddExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add exercise to block, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}
	if req.ExerciseID == uuid.Nil {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	routine, err := handler.service.AddExerciseToBlock(ctx, routineID, blockID, req.ExerciseID)
	if err != nil {
		writeError(w, "add exercise to block", err)
		return
	}
	pkg.WriteJSON(w, routine, http.StatusCreated)
}

func (handler *Handler) handleFlag(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	set func(ctx context.Context, id uuid.UUID, value bool) (*repo.Routine, error),
) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), spanName)
	defer span.End()

	id, ok := idFromVars(w, r, "id")
	if !ok {
		return
	}
	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}
	var req FlagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("set routine flag, unmarshal json params: %s", err)
		http.Error(w, "update routine failed", http.StatusBadRequest)
		return
	}

	routine, err := set(ctx, id, req.Value)
	if err != nil {
		writeError(w, "update routine", err)
		return
	}
	pkg.WriteJSON(w, routine, http.StatusOK)
}

func decodeRoutine(w http.ResponseWriter, r *http.Request) (*repo.Routine, bool) {
	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return nil, false
	}
	var routine repo.Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		log.Tracef("routine, unmarshal json params: %s", err)
		http.Error(w, "invalid routine", http.StatusBadRequest)
		return nil, false
	}
	return &routine, true
}

func idFromVars(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	idStr := mux.Vars(r)[name]
	if idStr == "" {
		http.Error(w, "error, "+name+" empty", http.StatusBadRequest)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "error, "+name+" invalid", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, repo.ErrRoutineNotFound),
		errors.Is(err, repo.ErrBlockNotFound),
		errors.Is(err, repo.ErrExerciseNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, repo.ErrRoutineNoDay),
		errors.Is(err, repo.ErrRoutineNoBlocks),
		errors.Is(err, repo.ErrBlockNoName),
		errors.Is(err, repo.ErrBlockNoSets),
		errors.Is(err, repo.ErrBlockNegRest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("failed to %s: %s", action, err)
		http.Error(w, "failed to "+action, http.StatusInternalServerError)
	}
}
