package repo

import (
	"context"
	"fmt"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

func (s *PgStore) AddCompletedWorkout(ctx context.Context, workout *CompletedWorkout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ensureID(&workout.ID)
	for i := range workout.Blocks {
		assignCompletedBlockIDs(&workout.Blocks[i], workout.ID)
	}
	span.SetAttributes(attribute.String("workout.id", workout.ID.String()))

	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO completed_workout
				(id, started_at, ended_at, routine_name, total_seconds)
				VALUES ($1, $2, $3, $4, $5);`,
			workout.ID, workout.StartedAt, workout.EndedAt, workout.RoutineName, workout.TotalSeconds,
		); err != nil {
			return fmt.Errorf("insert workout: %w", err)
		}
		for i := range workout.Blocks {
			if err := insertCompletedBlock(ctx, tx, &workout.Blocks[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PgStore) UpdateCompletedWorkout(ctx context.Context, workout *CompletedWorkout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workout.ID.String()))

	tag, err := s.db.Exec(
		ctx,
		`UPDATE completed_workout SET ended_at = $1, total_seconds = $2, routine_name = $3 WHERE id = $4;`,
		workout.EndedAt, workout.TotalSeconds, workout.RoutineName, workout.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (s *PgStore) AddCompletedBlock(ctx context.Context, block *CompletedBlock) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.add-block")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	assignCompletedBlockIDs(block, block.WorkoutID)
	span.SetAttributes(attribute.String("workout.id", block.WorkoutID.String()))
	span.SetAttributes(attribute.String("block.id", block.ID.String()))

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		return insertCompletedBlock(ctx, tx, block)
	})
	if pkg.IsForeignKeyViolationError(err) {
		return ErrWorkoutNotFound
	}
	return err
}

func insertCompletedBlock(ctx context.Context, q querier, block *CompletedBlock) error {
	if _, err := q.Exec(
		ctx,
		`INSERT INTO completed_block
			(id, workout_id, name, sets, skipped, started_at, ended_at, duration_seconds, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		block.ID, block.WorkoutID, block.Name, block.Sets, block.Skipped,
		block.StartedAt, block.EndedAt, block.DurationSeconds, block.Position,
	); err != nil {
		return fmt.Errorf("insert completed block %s: %w", block.ID, err)
	}
	for _, ex := range block.Exercises {
		if _, err := q.Exec(
			ctx,
			`INSERT INTO completed_exercise
				(id, block_id, name, reps, weight, notes, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			ex.ID, ex.BlockID, ex.Name, ex.Reps, ex.Weight, ex.Notes, ex.Position,
		); err != nil {
			return fmt.Errorf("insert completed exercise %s: %w", ex.ID, err)
		}
	}
	return nil
}

func (s *PgStore) UpdateCompletedBlock(ctx context.Context, block *CompletedBlock) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.update-block")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("block.id", block.ID.String()))

	tag, err := s.db.Exec(
		ctx,
		`UPDATE completed_block SET skipped = $1, ended_at = $2, duration_seconds = $3
			WHERE id = $4 AND workout_id = $5;`,
		block.Skipped, block.EndedAt, block.DurationSeconds, block.ID, block.WorkoutID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBlockNotFound
	}
	return nil
}

func (s *PgStore) DeleteCompletedWorkout(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id.String()))

	// blocks and exercises cascade, progress links are set to NULL
	tag, err := s.db.Exec(ctx, `DELETE FROM completed_workout WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (s *PgStore) GetCompletedWorkout(ctx context.Context, id uuid.UUID) (_ *CompletedWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id.String()))

	rows, err := s.db.Query(
		ctx,
		`SELECT id, started_at, ended_at, routine_name, total_seconds
			FROM completed_workout WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	workouts, err := s.rows2workouts(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}
	return &workouts[0], nil
}

func (s *PgStore) ListCompletedWorkouts(ctx context.Context, params WorkoutParams) (_ []CompletedWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Bool("only-finished", params.OnlyFinished))
	span.SetAttributes(attribute.Int("limit", params.Limit))
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
		`SELECT id, started_at, ended_at, routine_name, total_seconds
			FROM completed_workout
			WHERE ($1::timestamptz IS NULL OR started_at >= $1)
			AND ($2::timestamptz IS NULL OR started_at <= $2)
			AND ($3::boolean IS FALSE OR ended_at IS NOT NULL)
			ORDER BY started_at DESC
			LIMIT $4;`,
		params.From, params.To, params.OnlyFinished, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return s.rows2workouts(ctx, rows)
}

func (s *PgStore) rows2workouts(ctx context.Context, rows pgx.Rows) ([]CompletedWorkout, error) {
	workouts, err := scanWorkouts(rows)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return workouts, nil
	}

	ids := make([]uuid.UUID, len(workouts))
	for i := range workouts {
		ids[i] = workouts[i].ID
	}
	blocks, err := s.loadCompletedBlocks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range workouts {
		workouts[i].Blocks = blocks[workouts[i].ID]
		if workouts[i].Blocks == nil {
			workouts[i].Blocks = []CompletedBlock{}
		}
	}
	return workouts, nil
}

func scanWorkouts(rows pgx.Rows) ([]CompletedWorkout, error) {
	defer rows.Close()

	workouts := make([]CompletedWorkout, 0)
	for rows.Next() {
		var w CompletedWorkout
		if err := rows.Scan(&w.ID, &w.StartedAt, &w.EndedAt, &w.RoutineName, &w.TotalSeconds); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workout rows: %w", err)
	}
	return workouts, nil
}

func (s *PgStore) loadCompletedBlocks(ctx context.Context, workoutIDs []uuid.UUID) (map[uuid.UUID][]CompletedBlock, error) {
	rows, err := s.db.Query(
		ctx,
		`SELECT id, workout_id, name, sets, skipped, started_at, ended_at, duration_seconds, position
			FROM completed_block WHERE workout_id = ANY($1)
			ORDER BY position;`,
		workoutIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query completed blocks: %w", err)
	}
	defer rows.Close()

	var blocks []CompletedBlock
	var blockIDs []uuid.UUID
	for rows.Next() {
		var b CompletedBlock
		if err := rows.Scan(
			&b.ID, &b.WorkoutID, &b.Name, &b.Sets, &b.Skipped, &b.StartedAt, &b.EndedAt, &b.DurationSeconds, &b.Position,
		); err != nil {
			return nil, fmt.Errorf("scan completed block: %w", err)
		}
		blocks = append(blocks, b)
		blockIDs = append(blockIDs, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("completed block rows: %w", err)
	}
	rows.Close()

	exercises := make(map[uuid.UUID][]CompletedExercise)
	if len(blockIDs) > 0 {
		exRows, err := s.db.Query(
			ctx,
			`SELECT id, block_id, name, reps, weight, notes, position
				FROM completed_exercise WHERE block_id = ANY($1)
				ORDER BY position;`,
			blockIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("query completed exercises: %w", err)
		}
		defer exRows.Close()

		for exRows.Next() {
			var ex CompletedExercise
			if err := exRows.Scan(&ex.ID, &ex.BlockID, &ex.Name, &ex.Reps, &ex.Weight, &ex.Notes, &ex.Position); err != nil {
				return nil, fmt.Errorf("scan completed exercise: %w", err)
			}
			exercises[ex.BlockID] = append(exercises[ex.BlockID], ex)
		}
		if err := exRows.Err(); err != nil {
			return nil, fmt.Errorf("completed exercise rows: %w", err)
		}
	}

	byWorkout := make(map[uuid.UUID][]CompletedBlock)
	for _, b := range blocks {
		b.Exercises = exercises[b.ID]
		if b.Exercises == nil {
			b.Exercises = []CompletedExercise{}
		}
		byWorkout[b.WorkoutID] = append(byWorkout[b.WorkoutID], b)
	}
	return byWorkout, nil
}
