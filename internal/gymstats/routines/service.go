package routines

import (
	"context"
	"fmt"

	"github.com/2beens/workoutlog/internal/gymstats/repo"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=routines_test

type routinesStore interface {
	AddRoutine(ctx context.Context, routine *repo.Routine) error
	UpdateRoutine(ctx context.Context, routine *repo.Routine) error
	DeleteRoutine(ctx context.Context, id uuid.UUID) error
	GetRoutine(ctx context.Context, id uuid.UUID) (*repo.Routine, error)
	ListRoutines(ctx context.Context, params repo.RoutineParams) ([]repo.Routine, error)
	GetExercise(ctx context.Context, id uuid.UUID) (*repo.Exercise, error)
}

type Service struct {
	store routinesStore
}

func NewService(store routinesStore) *Service {
	return &Service{
		store: store,
	}
}

func (s *Service) Create(ctx context.Context, routine *repo.Routine) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.routines.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := routine.Validate(); err != nil {
		return err
	}
	for i := range routine.Blocks {
		routine.Blocks[i].CompletedSets = 0
	}
	if err := s.store.AddRoutine(ctx, routine); err != nil {
		return fmt.Errorf("add routine: %w", err)
	}

	log.Debugf("routine added: %s [%s], %d blocks", routine.DisplayName(), routine.ID, len(routine.Blocks))
	return nil
}

// Update replaces the routine, blocks and exercises included.
func (s *Service) Update(ctx context.Context, routine *repo.Routine) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.routines.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routine.ID.String()))

	if err := routine.Validate(); err != nil {
		return err
	}
	return s.store.UpdateRoutine(ctx, routine)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteRoutine(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*repo.Routine, error) {
	return s.store.GetRoutine(ctx, id)
}

func (s *Service) List(ctx context.Context, params repo.RoutineParams) ([]repo.Routine, error) {
	return s.store.ListRoutines(ctx, params)
}

func (s *Service) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) (*repo.Routine, error) {
	return s.modify(ctx, id, func(routine *repo.Routine) error {
		routine.Favorite = favorite
		return nil
	})
}

// SetArchived hides (or brings back) the routine from the default routine list.
func (s *Service) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (*repo.Routine, error) {
	return s.modify(ctx, id, func(routine *repo.Routine) error {
		routine.Archived = archived
		return nil
	})
}

// AddExerciseToBlock copies the library exercise into the block. Later edits of the
// library record do not change the copy, and the other way around.
func (s *Service) AddExerciseToBlock(
	ctx context.Context,
	routineID, blockID, exerciseID uuid.UUID,
) (_ *repo.Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.routines.addExerciseToBlock")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("routine.id", routineID.String()),
		attribute.String("block.id", blockID.String()),
		attribute.String("exercise.id", exerciseID.String()),
	)

	libraryExercise, err := s.store.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if !libraryExercise.IsLibrary() {
		return nil, repo.ErrExerciseNotFound
	}

	return s.modify(ctx, routineID, func(routine *repo.Routine) error {
		for i := range routine.Blocks {
			block := &routine.Blocks[i]
			if block.ID == blockID {
				block.Exercises = append(block.Exercises, libraryExercise.CopyForBlock(block.ID))
				return nil
			}
		}
		return repo.ErrBlockNotFound
	})
}

// modify loads the routine, applies fn and stores the result. Nothing is stored when fn fails.
func (s *Service) modify(ctx context.Context, id uuid.UUID, fn func(routine *repo.Routine) error) (*repo.Routine, error) {
	routine, err := s.store.GetRoutine(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(routine); err != nil {
		return nil, err
	}

	if err := s.store.UpdateRoutine(ctx, routine); err != nil {
		return nil, fmt.Errorf("update routine %s: %w", id, err)
	}
	return routine, nil
}
