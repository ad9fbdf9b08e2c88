package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

const exerciseColumns = `id, block_id, name, reps, weight, muscle_groups, notes, position, created_at`

func (s *PgStore) AddExercise(ctx context.Context, exercise *Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ensureID(&exercise.ID)
	exercise.BlockID = nil
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now()
	}
	span.SetAttributes(attribute.String("exercise.id", exercise.ID.String()))
	span.SetAttributes(attribute.String("exercise.name", exercise.Name))

	return insertExercise(ctx, s.db, *exercise)
}

func (s *PgStore) UpdateExercise(ctx context.Context, exercise *Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercises.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exercise.ID.String()))

	exercise.BlockID = nil
	tag, err := s.db.Exec(
		ctx,
		`UPDATE exercise
			SET name = $1, reps = $2, weight = $3, muscle_groups = $4, notes = $5
			WHERE id = $6 AND block_id IS NULL;`,
		exercise.Name, exercise.Reps, exercise.Weight, nonNil(exercise.MuscleGroups), exercise.Notes, exercise.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func (s *PgStore) DeleteExercise(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercises.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", id.String()))

	tag, err := s.db.Exec(ctx, `DELETE FROM exercise WHERE id = $1 AND block_id IS NULL;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func (s *PgStore) GetExercise(ctx context.Context, id uuid.UUID) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", id.String()))

	rows, err := s.db.Query(
		ctx,
		`SELECT `+exerciseColumns+` FROM exercise WHERE id = $1 AND block_id IS NULL;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises, err := rows2exercises(rows)
	if err != nil {
		return nil, err
	}
	if len(exercises) != 1 {
		return nil, ErrExerciseNotFound
	}
	return &exercises[0], nil
}

func (s *PgStore) ListExercises(ctx context.Context, params ExerciseParams) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("name", params.Name))
	span.SetAttributes(attribute.String("muscle_group", params.MuscleGroup))

	rows, err := s.db.Query(
		ctx,
		`SELECT `+exerciseColumns+`
			FROM exercise
			WHERE block_id IS NULL
			AND ($1::text = '' OR LOWER(name) = LOWER($1))
			AND ($2::text = '' OR LOWER($2) = ANY(SELECT LOWER(mg) FROM UNNEST(muscle_groups) AS mg))
			ORDER BY LOWER(name), created_at;`,
		params.Name, params.MuscleGroup,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return rows2exercises(rows)
}

func (s *PgStore) FindExerciseByName(ctx context.Context, name string) (*Exercise, error) {
	exercises, err := s.ListExercises(ctx, ExerciseParams{Name: name})
	if err != nil {
		return nil, err
	}
	if len(exercises) == 0 {
		return nil, ErrExerciseNotFound
	}
	return &exercises[0], nil
}

func rows2exercises(rows pgx.Rows) ([]Exercise, error) {
	exercises := make([]Exercise, 0)
	for rows.Next() {
		var ex Exercise
		if err := rows.Scan(
			&ex.ID, &ex.BlockID, &ex.Name, &ex.Reps, &ex.Weight, &ex.MuscleGroups, &ex.Notes, &ex.Position, &ex.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exercise rows: %w", err)
	}
	return exercises, nil
}
