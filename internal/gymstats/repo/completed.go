package repo

import (
	"time"

	"github.com/google/uuid"
)

// CompletedWorkout is the history record of one workout session. It is created when
// the workout starts and finalized (EndedAt, TotalSeconds) when it ends.
type CompletedWorkout struct {
	ID           uuid.UUID        `json:"id"`
	StartedAt    time.Time        `json:"startedAt"`
	EndedAt      *time.Time       `json:"endedAt,omitempty"`
	RoutineName  string           `json:"routineName"`
	TotalSeconds int              `json:"totalSeconds"`
	Blocks       []CompletedBlock `json:"blocks"`
}

type CompletedBlock struct {
	ID              uuid.UUID           `json:"id"`
	WorkoutID       uuid.UUID           `json:"workoutId"`
	Name            string              `json:"name"`
	Sets            int                 `json:"sets"`
	Skipped         bool                `json:"skipped"`
	StartedAt       time.Time           `json:"startedAt"`
	EndedAt         *time.Time          `json:"endedAt,omitempty"`
	DurationSeconds int                 `json:"durationSeconds"`
	Position        int                 `json:"position"`
	Exercises       []CompletedExercise `json:"exercises"`
}

type CompletedExercise struct {
	ID       uuid.UUID `json:"id"`
	BlockID  uuid.UUID `json:"blockId"`
	Name     string    `json:"name"`
	Reps     int       `json:"reps"`
	Weight   float64   `json:"weight"`
	Notes    string    `json:"notes"`
	Position int       `json:"position"`
}

func NewCompletedWorkout(routineName string, startedAt time.Time) *CompletedWorkout {
	return &CompletedWorkout{
		ID:          uuid.New(),
		StartedAt:   startedAt,
		RoutineName: routineName,
		Blocks:      []CompletedBlock{},
	}
}

// NewCompletedBlock snapshots the block (name, set target, exercises) at the time it is started.
func NewCompletedBlock(block Block, workoutID uuid.UUID, position int, startedAt time.Time) CompletedBlock {
	cb := CompletedBlock{
		ID:        uuid.New(),
		WorkoutID: workoutID,
		Name:      block.Name,
		Sets:      block.Sets,
		StartedAt: startedAt,
		Position:  position,
		Exercises: make([]CompletedExercise, 0, len(block.Exercises)),
	}
	for i, ex := range block.Exercises {
		cb.Exercises = append(cb.Exercises, CompletedExercise{
			ID:       uuid.New(),
			BlockID:  cb.ID,
			Name:     ex.Name,
			Reps:     ex.Reps,
			Weight:   ex.Weight,
			Notes:    ex.Notes,
			Position: i,
		})
	}
	return cb
}

// Clone returns a deep copy of the workout, blocks and exercises included.
func (w *CompletedWorkout) Clone() *CompletedWorkout {
	cp := *w
	cp.EndedAt = copyTime(w.EndedAt)
	cp.Blocks = make([]CompletedBlock, len(w.Blocks))
	for i, b := range w.Blocks {
		cp.Blocks[i] = b.Clone()
	}
	return &cp
}

func (b CompletedBlock) Clone() CompletedBlock {
	cp := b
	cp.EndedAt = copyTime(b.EndedAt)
	cp.Exercises = append([]CompletedExercise(nil), b.Exercises...)
	return cp
}

func (w *CompletedWorkout) Duration() time.Duration {
	return time.Duration(w.TotalSeconds) * time.Second
}

func (w *CompletedWorkout) IsFinished() bool {
	return w.EndedAt != nil
}

func (w *CompletedWorkout) SkippedCount() int {
	count := 0
	for _, b := range w.Blocks {
		if b.Skipped {
			count++
		}
	}
	return count
}

// Volume is the sum of reps x weight x sets over all non skipped blocks.
func (w *CompletedWorkout) Volume() float64 {
	var volume float64
	for _, b := range w.Blocks {
		if b.Skipped {
			continue
		}
		for _, ex := range b.Exercises {
			volume += float64(ex.Reps) * ex.Weight * float64(b.Sets)
		}
	}
	return volume
}

// ExerciseProgress is a single point in an exercise's history.
type ExerciseProgress struct {
	ID                  uuid.UUID  `json:"id"`
	Date                time.Time  `json:"date"`
	Weight              float64    `json:"weight"`
	Reps                int        `json:"reps"`
	Notes               string     `json:"notes"`
	ExerciseName        string     `json:"exerciseName"`
	ExerciseID          *uuid.UUID `json:"exerciseId,omitempty"`
	CompletedExerciseID *uuid.UUID `json:"completedExerciseId,omitempty"`
}
