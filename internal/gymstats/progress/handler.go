package progress

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/repo"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type AddEntryRequest struct {
	ExerciseName string    `json:"exerciseName"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	Notes        string    `json:"notes"`
	Date         time.Time `json:"date"`
}

type ListResponse struct {
	Entries []repo.ExerciseProgress `json:"entries"`
	Total   int                     `json:"total"`
}

type Handler struct {
	tracker *Tracker
	stats   *Stats
}

func NewHandler(tracker *Tracker, stats *Stats) *Handler {
	return &Handler{
		tracker: tracker,
		stats:   stats,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.list")
	defer span.End()

	params := repo.ProgressParams{
		ExerciseName: r.URL.Query().Get("exercise"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			http.Error(w, "error, limit invalid", http.StatusBadRequest)
			return
		}
		params.Limit = limit
	}

	entries, err := handler.tracker.List(ctx, params)
	if err != nil {
		log.Errorf("failed to list progress [%s]: %s", params.ExerciseName, err)
		http.Error(w, "failed to list progress", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListResponse{
		Entries: entries,
		Total:   len(entries),
	}, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add progress entry, unmarshal json params: %s", err)
		http.Error(w, "add progress entry failed", http.StatusBadRequest)
		return
	}

	entry := &repo.ExerciseProgress{
		Date:         req.Date,
		Weight:       req.Weight,
		Reps:         req.Reps,
		Notes:        req.Notes,
		ExerciseName: req.ExerciseName,
	}
	if err := handler.tracker.AddEntry(ctx, entry); err != nil {
		if errors.Is(err, ErrEntryNoExercise) {
			http.Error(w, "error, exercise name empty", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add progress entry [%s]: %s", req.ExerciseName, err)
		http.Error(w, "error, failed to add progress entry", http.StatusInternalServerError)
		return
	}

	log.Debugf("progress entry added: %s [%s]", entry.ExerciseName, entry.ID)
	pkg.WriteJSON(w, entry, http.StatusCreated)
}

func (handler *Handler) HandleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.history")
	defer span.End()

	exerciseName := mux.Vars(r)["exercise"]
	if exerciseName == "" {
		http.Error(w, "error, exercise empty", http.StatusBadRequest)
		return
	}

	history, err := handler.stats.ExerciseHistory(ctx, exerciseName)
	if err != nil {
		log.Errorf("failed to get exercise history [%s]: %s", exerciseName, err)
		http.Error(w, "failed to get exercise history", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, history, http.StatusOK)
}
