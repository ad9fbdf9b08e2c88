package history

import (
	"context"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/repo"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/google/uuid"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=history_test

type historyStore interface {
	GetCompletedWorkout(ctx context.Context, id uuid.UUID) (*repo.CompletedWorkout, error)
	ListCompletedWorkouts(ctx context.Context, params repo.WorkoutParams) ([]repo.CompletedWorkout, error)
	DeleteCompletedWorkout(ctx context.Context, id uuid.UUID) error
}

type Analyzer struct {
	store historyStore
}

func NewAnalyzer(store historyStore) *Analyzer {
	return &Analyzer{
		store: store,
	}
}

type AvgBlockDurationResponse struct {
	// Duration is the average duration of all completed (non skipped) blocks
	Duration time.Duration `json:"duration"`
	// DurationPerDay is the average block duration for each training day
	DurationPerDay map[time.Time]time.Duration `json:"durationPerDay"`
	// WorkoutDuration is the average total duration of finished workouts
	WorkoutDuration time.Duration `json:"workoutDuration"`
	Workouts        int           `json:"workouts"`
}

// AvgBlockDuration calculates the average block duration over finished workouts,
// overall and for each day. Skipped blocks are not counted.
func (a *Analyzer) AvgBlockDuration(
	ctx context.Context,
	from, to *time.Time,
) (_ *AvgBlockDurationResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.history.avg-block-duration")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workouts, err := a.store.ListCompletedWorkouts(ctx, repo.WorkoutParams{
		From:         from,
		To:           to,
		OnlyFinished: true,
	})
	if err != nil {
		return nil, err
	}

	resp := &AvgBlockDurationResponse{
		DurationPerDay: make(map[time.Time]time.Duration),
		Workouts:       len(workouts),
	}
	if len(workouts) == 0 {
		return resp, nil
	}

	day2durations := make(map[time.Time][]time.Duration)
	var workoutsTotal time.Duration
	for _, w := range workouts {
		workoutsTotal += w.Duration()
		day := w.StartedAt.UTC().Truncate(24 * time.Hour)
		for _, b := range w.Blocks {
			if b.Skipped || b.EndedAt == nil {
				continue
			}
			day2durations[day] = append(day2durations[day], time.Duration(b.DurationSeconds)*time.Second)
		}
	}
	resp.WorkoutDuration = workoutsTotal / time.Duration(len(workouts))

	var total time.Duration
	var count int
	for day, durations := range day2durations {
		var dayTotal time.Duration
		for _, d := range durations {
			dayTotal += d
		}
		resp.DurationPerDay[day] = dayTotal / time.Duration(len(durations))
		total += dayTotal
		count += len(durations)
	}
	if count > 0 {
		resp.Duration = total / time.Duration(count)
	}

	return resp, nil
}
