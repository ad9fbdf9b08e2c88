package repo

import (
	"context"
	"fmt"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

func (s *PgStore) AddProgress(ctx context.Context, entry *ExerciseProgress) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.progress.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ensureID(&entry.ID)
	span.SetAttributes(attribute.String("exercise.name", entry.ExerciseName))

	_, err = s.db.Exec(
		ctx,
		`INSERT INTO exercise_progress
			(id, date, weight, reps, notes, exercise_name, exercise_id, completed_exercise_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		entry.ID, entry.Date, entry.Weight, entry.Reps, entry.Notes,
		entry.ExerciseName, entry.ExerciseID, entry.CompletedExerciseID,
	)
	return err
}

func (s *PgStore) ListProgress(ctx context.Context, params ProgressParams) (_ []ExerciseProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.progress.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.name", params.ExerciseName))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	var limit *int
	if params.Limit > 0 {
		limit = &params.Limit
	}

	rows, err := s.db.Query(
		ctx,
		`SELECT id, date, weight, reps, notes, exercise_name, exercise_id, completed_exercise_id
			FROM exercise_progress
			WHERE ($1::text = '' OR LOWER(exercise_name) = LOWER($1))
			AND ($2::timestamptz IS NULL OR date >= $2)
			AND ($3::timestamptz IS NULL OR date <= $3)
			ORDER BY date DESC
			LIMIT $4;`,
		params.ExerciseName, params.From, params.To, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	entries := make([]ExerciseProgress, 0)
	for rows.Next() {
		var p ExerciseProgress
		if err := rows.Scan(
			&p.ID, &p.Date, &p.Weight, &p.Reps, &p.Notes, &p.ExerciseName, &p.ExerciseID, &p.CompletedExerciseID,
		); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		entries = append(entries, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("progress rows: %w", err)
	}
	return entries, nil
}
