package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRoutineNotFound  = errors.New("routine not found")
	ErrBlockNotFound    = errors.New("block not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrWorkoutNotFound  = errors.New("completed workout not found")
)

type RoutineParams struct {
	OnlyFavorites   bool
	IncludeArchived bool
}

type ExerciseParams struct {
	Name        string
	MuscleGroup string
}

type WorkoutParams struct {
	From         *time.Time
	To           *time.Time
	OnlyFinished bool
	Limit        int
}

type ProgressParams struct {
	ExerciseName string
	From         *time.Time
	To           *time.Time
	Limit        int
}

// Store is the durable entity store. Records passed to Add* get an identity
// assigned when theirs is zero.
type Store interface {
	AddRoutine(ctx context.Context, routine *Routine) error
	UpdateRoutine(ctx context.Context, routine *Routine) error
	DeleteRoutine(ctx context.Context, id uuid.UUID) error
	GetRoutine(ctx context.Context, id uuid.UUID) (*Routine, error)
	ListRoutines(ctx context.Context, params RoutineParams) ([]Routine, error)
	UpdateBlockCompletedSets(ctx context.Context, blockID uuid.UUID, completedSets int) error

	// exercise library
	AddExercise(ctx context.Context, exercise *Exercise) error
	UpdateExercise(ctx context.Context, exercise *Exercise) error
	DeleteExercise(ctx context.Context, id uuid.UUID) error
	GetExercise(ctx context.Context, id uuid.UUID) (*Exercise, error)
	ListExercises(ctx context.Context, params ExerciseParams) ([]Exercise, error)
	FindExerciseByName(ctx context.Context, name string) (*Exercise, error)

	// workout history
	AddCompletedWorkout(ctx context.Context, workout *CompletedWorkout) error
	UpdateCompletedWorkout(ctx context.Context, workout *CompletedWorkout) error
	AddCompletedBlock(ctx context.Context, block *CompletedBlock) error
	UpdateCompletedBlock(ctx context.Context, block *CompletedBlock) error
	DeleteCompletedWorkout(ctx context.Context, id uuid.UUID) error
	GetCompletedWorkout(ctx context.Context, id uuid.UUID) (*CompletedWorkout, error)
	ListCompletedWorkouts(ctx context.Context, params WorkoutParams) ([]CompletedWorkout, error)

	// progress
	AddProgress(ctx context.Context, entry *ExerciseProgress) error
	ListProgress(ctx context.Context, params ProgressParams) ([]ExerciseProgress, error)
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
