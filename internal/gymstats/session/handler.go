package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/workoutlog/internal/gymstats/repo"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type StartRequest struct {
	RoutineID uuid.UUID `json:"routineId"`
}

type CurrentBlockRequest struct {
	Index int `json:"index"`
}

type EndResponse struct {
	Workout *repo.CompletedWorkout `json:"workout,omitempty"`
	State   State                  `json:"state"`
}

type Handler struct {
	controller *Controller
}

func NewHandler(controller *Controller) *Handler {
	return &Handler{
		controller: controller,
	}
}

func (h *Handler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	h.writeState(w)
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.start")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("start workout, unmarshal json params: %s", err)
		http.Error(w, "start workout failed", http.StatusBadRequest)
		return
	}
	if req.RoutineID == uuid.Nil {
		http.Error(w, "error, routine id empty", http.StatusBadRequest)
		return
	}

	if err := h.controller.StartWorkout(ctx, req.RoutineID); err != nil {
		switch {
		case errors.Is(err, repo.ErrRoutineNotFound):
			http.Error(w, "routine not found", http.StatusNotFound)
		case errors.Is(err, ErrNoBlocks):
			http.Error(w, "routine has no blocks", http.StatusUnprocessableEntity)
		case errors.Is(err, ErrWorkoutInProgress):
			http.Error(w, "a workout is already in progress", http.StatusConflict)
		default:
			log.Errorf("start workout %s: %s", req.RoutineID, err)
			http.Error(w, "start workout failed", http.StatusInternalServerError)
		}
		return
	}

	h.controller.Flush()
	h.writeState(w)
}

func (h *Handler) HandleLogSet(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, "handler.session.logset", h.controller.LogSet)
}

func (h *Handler) HandleCompleteBlock(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, "handler.session.completeblock", func(ctx context.Context) {
		h.controller.CompleteBlock(ctx, false)
	})
}

func (h *Handler) HandleSkipBlock(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, "handler.session.skipblock", h.controller.SkipBlock)
}

func (h *Handler) HandleSkipRest(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, "handler.session.skiprest", h.controller.SkipRest)
}

func (h *Handler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, "handler.session.dismiss", h.controller.DismissWorkout)
}

func (h *Handler) HandlePause(w http.ResponseWriter, r *http.Request) {
	h.controller.PauseWorkout()
	h.writeState(w)
}

func (h *Handler) HandleMinimize(w http.ResponseWriter, r *http.Request) {
	h.controller.MinimizeWorkout()
	h.writeState(w)
}

func (h *Handler) HandleResume(w http.ResponseWriter, r *http.Request) {
	h.controller.ResumeWorkout()
	h.writeState(w)
}

func (h *Handler) HandleCloseSummary(w http.ResponseWriter, r *http.Request) {
	h.controller.CloseSummary()
	h.writeState(w)
}

func (h *Handler) HandleUpdateCurrentBlock(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.currentblock")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req CurrentBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update current block, unmarshal json params: %s", err)
		http.Error(w, "update current block failed", http.StatusBadRequest)
		return
	}

	h.controller.UpdateCurrentBlock(ctx, req.Index)
	h.controller.Flush()
	h.writeState(w)
}

func (h *Handler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.end")
	defer span.End()

	workout := h.controller.EndWorkout(ctx)
	h.controller.Flush()
	respJson, err := json.Marshal(EndResponse{
		Workout: workout,
		State:   h.controller.State(),
	})
	if err != nil {
		log.Errorf("failed to marshal end workout response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

// command runs a session command. Commands without an active workout are no-ops,
// the caller always gets the resulting state back. The response goes out once the
// store writes of the command are done, so history reads that follow see them.
func (h *Handler) command(w http.ResponseWriter, r *http.Request, spanName string, cmd func(ctx context.Context)) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), spanName)
	defer span.End()

	cmd(ctx)
	h.controller.Flush()
	h.writeState(w)
}

func (h *Handler) writeState(w http.ResponseWriter) {
	stateJson, err := json.Marshal(h.controller.State())
	if err != nil {
		log.Errorf("failed to marshal session state: %s", err)
		http.Error(w, "failed to marshal session state", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, stateJson, http.StatusOK)
}
