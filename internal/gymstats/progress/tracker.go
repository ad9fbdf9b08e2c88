package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/events"
	"github.com/2beens/workoutlog/internal/gymstats/repo"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrEntryNoExercise = errors.New("progress entry exercise name is empty")

// Tracker turns finished workouts into progress history. History is append-only,
// a workout finished twice is recorded twice.
type Tracker struct {
	store progressStore
	stats *Stats
	now   func() time.Time
}

func NewTracker(store progressStore, stats *Stats) *Tracker {
	return &Tracker{
		store: store,
		stats: stats,
		now:   time.Now,
	}
}

// Register subscribes the tracker to finished workouts.
func (t *Tracker) Register(eventsService *events.Service) {
	eventsService.Subscribe(events.EventTypeWorkoutFinished, t.onWorkoutFinished)
}

func (t *Tracker) onWorkoutFinished(ctx context.Context, event events.Event) {
	if event.Workout == nil {
		log.Warnf("workout finished event %d without workout", event.ID)
		return
	}
	recorded, err := t.RecordWorkout(ctx, event.Workout)
	if err != nil {
		log.Errorf("record progress of workout %s: %s", event.Workout.ID, err)
		return
	}
	log.Debugf("recorded %d progress entries for workout %s", recorded, event.Workout.ID)
}

// RecordWorkout appends one progress entry per exercise of every non skipped block.
// It returns the number of recorded entries, recording stops at the first store error.
func (t *Tracker) RecordWorkout(ctx context.Context, workout *repo.CompletedWorkout) (recorded int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.progress.recordWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workout.ID.String()))

	date := workout.StartedAt
	if workout.EndedAt != nil {
		date = *workout.EndedAt
	}

	library := make(map[string]*repo.Exercise)
	for _, block := range workout.Blocks {
		if block.Skipped {
			continue
		}
		for _, ex := range block.Exercises {
			completedExerciseID := ex.ID
			entry := &repo.ExerciseProgress{
				Date:                date,
				Weight:              ex.Weight,
				Reps:                ex.Reps,
				Notes:               ex.Notes,
				ExerciseName:        ex.Name,
				CompletedExerciseID: &completedExerciseID,
			}
			if libEx := t.libraryExercise(ctx, library, ex.Name); libEx != nil {
				libID := libEx.ID
				entry.ExerciseID = &libID
			}

			if err := t.store.AddProgress(ctx, entry); err != nil {
				return recorded, fmt.Errorf("add progress %s: %w", ex.Name, err)
			}
			t.invalidate(ex.Name)
			recorded++
		}
	}

	return recorded, nil
}

// AddEntry records a manually entered progress entry.
func (t *Tracker) AddEntry(ctx context.Context, entry *repo.ExerciseProgress) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.progress.addEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	entry.ExerciseName = strings.TrimSpace(entry.ExerciseName)
	if entry.ExerciseName == "" {
		return ErrEntryNoExercise
	}
	if entry.Date.IsZero() {
		entry.Date = t.now()
	}
	if entry.ExerciseID == nil {
		if libEx := t.libraryExercise(ctx, nil, entry.ExerciseName); libEx != nil {
			libID := libEx.ID
			entry.ExerciseID = &libID
		}
	}

	if err := t.store.AddProgress(ctx, entry); err != nil {
		return fmt.Errorf("add progress %s: %w", entry.ExerciseName, err)
	}
	t.invalidate(entry.ExerciseName)
	return nil
}

func (t *Tracker) List(ctx context.Context, params repo.ProgressParams) ([]repo.ExerciseProgress, error) {
	return t.store.ListProgress(ctx, params)
}

// libraryExercise finds the canonical library record by name, nil when there is none.
// Lookups are memoized in known when it is not nil.
func (t *Tracker) libraryExercise(ctx context.Context, known map[string]*repo.Exercise, name string) *repo.Exercise {
	key := strings.ToLower(name)
	if known != nil {
		if ex, ok := known[key]; ok {
			return ex
		}
	}

	ex, err := t.store.FindExerciseByName(ctx, name)
	if err != nil {
		if !errors.Is(err, repo.ErrExerciseNotFound) {
			log.Errorf("find library exercise %s: %s", name, err)
		}
		ex = nil
	}
	if known != nil {
		known[key] = ex
	}
	return ex
}

func (t *Tracker) invalidate(exerciseName string) {
	if t.stats != nil {
		t.stats.Invalidate(exerciseName)
	}
}
