package mcp

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaRepo provides the workout log DB schema (information_schema) data.
type SchemaRepo interface {
	GetWorkoutlogColumns(ctx context.Context) ([]SchemaColumn, error)
}

// SchemaColumn represents one row from information_schema.columns for workout log tables.
type SchemaColumn struct {
	TableSchema string
	TableName   string
	ColumnName  string
	DataType    string
	IsNullable  string
	ColumnDef   *string
}

var workoutlogTables = []string{
	"routine",
	"block",
	"exercise",
	"completed_workout",
	"completed_block",
	"completed_exercise",
	"exercise_progress",
	"gymstats_event",
}

type poolSchemaRepo struct {
	pool *pgxpool.Pool
}

// NewPoolSchemaRepo returns a SchemaRepo that uses the given pool.
func NewPoolSchemaRepo(pool *pgxpool.Pool) SchemaRepo {
	return &poolSchemaRepo{pool: pool}
}

func (r *poolSchemaRepo) GetWorkoutlogColumns(ctx context.Context) ([]SchemaColumn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT table_schema, table_name, column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
		ORDER BY table_name, ordinal_position`,
		workoutlogTables,
	)
	if err != nil {
		return nil, fmt.Errorf("query information_schema: %w", err)
	}
	defer rows.Close()

	var cols []SchemaColumn
	for rows.Next() {
		var c SchemaColumn
		if err := rows.Scan(&c.TableSchema, &c.TableName, &c.ColumnName, &c.DataType, &c.IsNullable, &c.ColumnDef); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating columns: %w", err)
	}

	return cols, nil
}

// staticSchemaRepo describes the tables without a database, used with the memory store.
type staticSchemaRepo struct{}

// NewStaticSchemaRepo returns a SchemaRepo reporting no columns.
func NewStaticSchemaRepo() SchemaRepo {
	return staticSchemaRepo{}
}

func (staticSchemaRepo) GetWorkoutlogColumns(context.Context) ([]SchemaColumn, error) {
	return nil, nil
}
