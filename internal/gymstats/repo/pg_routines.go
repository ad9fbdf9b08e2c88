package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

func (s *PgStore) AddRoutine(ctx context.Context, routine *Routine) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.routines.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ensureID(&routine.ID)
	assignRoutineIDs(routine)
	now := time.Now()
	routine.CreatedAt = now
	routine.UpdatedAt = now
	span.SetAttributes(attribute.String("routine.id", routine.ID.String()))

	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO routine
				(id, day, muscle_groups, notes, favorite, archived, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
			routine.ID, routine.Day, nonNil(routine.MuscleGroups), routine.Notes,
			routine.Favorite, routine.Archived, routine.CreatedAt, routine.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert routine: %w", err)
		}
		return insertBlocks(ctx, tx, routine.Blocks)
	})
}

func (s *PgStore) UpdateRoutine(ctx context.Context, routine *Routine) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.routines.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routine.ID.String()))

	assignRoutineIDs(routine)
	routine.UpdatedAt = time.Now()

	return s.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(
			ctx,
			`UPDATE routine
				SET day = $1, muscle_groups = $2, notes = $3, favorite = $4, archived = $5, updated_at = $6
				WHERE id = $7
			RETURNING created_at;`,
			routine.Day, nonNil(routine.MuscleGroups), routine.Notes,
			routine.Favorite, routine.Archived, routine.UpdatedAt, routine.ID,
		).Scan(&routine.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRoutineNotFound
		}
		if err != nil {
			return fmt.Errorf("update routine: %w", err)
		}

		// block exercises are removed by the cascade
		if _, err := tx.Exec(ctx, `DELETE FROM block WHERE routine_id = $1;`, routine.ID); err != nil {
			return fmt.Errorf("delete blocks: %w", err)
		}
		return insertBlocks(ctx, tx, routine.Blocks)
	})
}

func insertBlocks(ctx context.Context, q querier, blocks []Block) error {
	for _, b := range blocks {
		if _, err := q.Exec(
			ctx,
			`INSERT INTO block
				(id, routine_id, name, sets, rest_seconds, completed_sets, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			b.ID, b.RoutineID, b.Name, b.Sets, b.RestSeconds, b.CompletedSets, b.Position,
		); err != nil {
			return fmt.Errorf("insert block %s: %w", b.ID, err)
		}
		for _, ex := range b.Exercises {
			if err := insertExercise(ctx, q, ex); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertExercise(ctx context.Context, q querier, ex Exercise) error {
	if _, err := q.Exec(
		ctx,
		`INSERT INTO exercise
			(id, block_id, name, reps, weight, muscle_groups, notes, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		ex.ID, ex.BlockID, ex.Name, ex.Reps, ex.Weight, nonNil(ex.MuscleGroups), ex.Notes, ex.Position, ex.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert exercise %s: %w", ex.ID, err)
	}
	return nil
}

func (s *PgStore) DeleteRoutine(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.routines.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", id.String()))

	tag, err := s.db.Exec(ctx, `DELETE FROM routine WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}
	return nil
}

func (s *PgStore) GetRoutine(ctx context.Context, id uuid.UUID) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.routines.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", id.String()))

	rows, err := s.db.Query(
		ctx,
		`SELECT id, day, muscle_groups, notes, favorite, archived, created_at, updated_at
			FROM routine WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	routines, err := s.rows2routines(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(routines) != 1 {
		return nil, ErrRoutineNotFound
	}
	return &routines[0], nil
}

func (s *PgStore) ListRoutines(ctx context.Context, params RoutineParams) (_ []Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.routines.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Bool("only-favorites", params.OnlyFavorites))
	span.SetAttributes(attribute.Bool("include-archived", params.IncludeArchived))

	rows, err := s.db.Query(
		ctx,
		`SELECT id, day, muscle_groups, notes, favorite, archived, created_at, updated_at
			FROM routine
			WHERE ($1::boolean IS FALSE OR favorite)
			AND ($2::boolean IS TRUE OR NOT archived)
			ORDER BY day, created_at;`,
		params.OnlyFavorites, params.IncludeArchived,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return s.rows2routines(ctx, rows)
}

// rows2routines scans routine rows (closing them) and loads their blocks and block exercises.
func (s *PgStore) rows2routines(ctx context.Context, rows pgx.Rows) ([]Routine, error) {
	routines, err := scanRoutines(rows)
	if err != nil {
		return nil, err
	}
	if len(routines) == 0 {
		return routines, nil
	}

	ids := make([]uuid.UUID, len(routines))
	for i := range routines {
		ids[i] = routines[i].ID
	}
	blocks, err := s.loadBlocks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range routines {
		routines[i].Blocks = blocks[routines[i].ID]
		if routines[i].Blocks == nil {
			routines[i].Blocks = []Block{}
		}
	}
	return routines, nil
}

func scanRoutines(rows pgx.Rows) ([]Routine, error) {
	defer rows.Close()

	routines := make([]Routine, 0)
	for rows.Next() {
		var r Routine
		if err := rows.Scan(
			&r.ID, &r.Day, &r.MuscleGroups, &r.Notes, &r.Favorite, &r.Archived, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan routine: %w", err)
		}
		routines = append(routines, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return routines, nil
}

func (s *PgStore) loadBlocks(ctx context.Context, routineIDs []uuid.UUID) (map[uuid.UUID][]Block, error) {
	rows, err := s.db.Query(
		ctx,
		`SELECT id, routine_id, name, sets, rest_seconds, completed_sets, position
			FROM block WHERE routine_id = ANY($1)
			ORDER BY position;`,
		routineIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer rows.Close()

	var blocks []Block
	var blockIDs []uuid.UUID
	for rows.Next() {
		var b Block
		if err := rows.Scan(&b.ID, &b.RoutineID, &b.Name, &b.Sets, &b.RestSeconds, &b.CompletedSets, &b.Position); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, b)
		blockIDs = append(blockIDs, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("block rows: %w", err)
	}
	rows.Close()

	exercises, err := s.loadBlockExercises(ctx, blockIDs)
	if err != nil {
		return nil, err
	}

	byRoutine := make(map[uuid.UUID][]Block)
	for _, b := range blocks {
		b.Exercises = exercises[b.ID]
		if b.Exercises == nil {
			b.Exercises = []Exercise{}
		}
		byRoutine[b.RoutineID] = append(byRoutine[b.RoutineID], b)
	}
	return byRoutine, nil
}

func (s *PgStore) loadBlockExercises(ctx context.Context, blockIDs []uuid.UUID) (map[uuid.UUID][]Exercise, error) {
	result := make(map[uuid.UUID][]Exercise)
	if len(blockIDs) == 0 {
		return result, nil
	}

	rows, err := s.db.Query(
		ctx,
		`SELECT id, block_id, name, reps, weight, muscle_groups, notes, position, created_at
			FROM exercise WHERE block_id = ANY($1)
			ORDER BY position;`,
		blockIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query block exercises: %w", err)
	}
	defer rows.Close()

	exercises, err := rows2exercises(rows)
	if err != nil {
		return nil, err
	}
	for _, ex := range exercises {
		result[*ex.BlockID] = append(result[*ex.BlockID], ex)
	}
	return result, nil
}

func (s *PgStore) UpdateBlockCompletedSets(ctx context.Context, blockID uuid.UUID, completedSets int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.blocks.update-completed-sets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("block.id", blockID.String()))
	span.SetAttributes(attribute.Int("completed-sets", completedSets))

	tag, err := s.db.Exec(ctx, `UPDATE block SET completed_sets = $1 WHERE id = $2;`, completedSets, blockID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBlockNotFound
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
