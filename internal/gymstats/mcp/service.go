package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/history"
	"github.com/2beens/workoutlog/internal/gymstats/progress"
	"github.com/2beens/workoutlog/internal/gymstats/repo"
)

// workoutlogStore is the read side of the entity store the MCP tools need.
type workoutlogStore interface {
	ListRoutines(ctx context.Context, params repo.RoutineParams) ([]repo.Routine, error)
	ListExercises(ctx context.Context, params repo.ExerciseParams) ([]repo.Exercise, error)
	ListCompletedWorkouts(ctx context.Context, params repo.WorkoutParams) ([]repo.CompletedWorkout, error)
}

type exerciseHistorian interface {
	ExerciseHistory(ctx context.Context, exerciseName string) (*progress.ExerciseHistory, error)
}

type blockAnalyzer interface {
	AvgBlockDuration(ctx context.Context, from, to *time.Time) (*history.AvgBlockDurationResponse, error)
}

// contextService provides workout log context data. Used by Handler for testability.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	ListRoutines(ctx context.Context, includeArchived bool) ([]repo.Routine, error)
	ListExercises(ctx context.Context, params repo.ExerciseParams) ([]repo.Exercise, error)
	ListWorkouts(ctx context.Context, from, to time.Time) ([]repo.CompletedWorkout, error)
	GetExerciseHistory(ctx context.Context, exerciseName string) (*progress.ExerciseHistory, error)
	GetAvgBlockDuration(ctx context.Context, from, to time.Time) (*history.AvgBlockDurationResponse, error)
}

// ContextService holds dependencies and implements the workout log context queries.
type ContextService struct {
	schema   SchemaRepo
	store    workoutlogStore
	stats    exerciseHistorian
	analyzer blockAnalyzer
}

func NewContextService(
	schemaRepo SchemaRepo,
	store workoutlogStore,
	stats exerciseHistorian,
	analyzer blockAnalyzer,
) *ContextService {
	return &ContextService{
		schema:   schemaRepo,
		store:    store,
		stats:    stats,
		analyzer: analyzer,
	}
}

// GetSchema returns the DB schema (table names, columns, types) of the workout log tables.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetWorkoutlogColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatSchema(cols), nil
}

func formatSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Workout Log DB Schema\n\nNo workout log tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}
	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Workout Log DB Schema\n\n")
	b.WriteString(fmt.Sprintf("Tables: %s (schema: public).\n\n", strings.Join(tableOrder, ", ")))
	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

func (s *ContextService) ListRoutines(ctx context.Context, includeArchived bool) ([]repo.Routine, error) {
	return s.store.ListRoutines(ctx, repo.RoutineParams{IncludeArchived: includeArchived})
}

func (s *ContextService) ListExercises(ctx context.Context, params repo.ExerciseParams) ([]repo.Exercise, error) {
	return s.store.ListExercises(ctx, params)
}

// ListWorkouts returns the completed workouts started within [from, to].
func (s *ContextService) ListWorkouts(ctx context.Context, from, to time.Time) ([]repo.CompletedWorkout, error) {
	return s.store.ListCompletedWorkouts(ctx, repo.WorkoutParams{
		From: &from,
		To:   &to,
	})
}

// GetExerciseHistory returns per-day stats (avg and max weight, avg reps, entry count) for an exercise.
func (s *ContextService) GetExerciseHistory(ctx context.Context, exerciseName string) (*progress.ExerciseHistory, error) {
	return s.stats.ExerciseHistory(ctx, exerciseName)
}

// GetAvgBlockDuration returns the average block duration (overall and per day) for the given period.
func (s *ContextService) GetAvgBlockDuration(ctx context.Context, from, to time.Time) (*history.AvgBlockDurationResponse, error) {
	return s.analyzer.AvgBlockDuration(ctx, &from, &to)
}
