package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/repo"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

// SchemaInput is the (empty) input for get_workoutlog_schema.
type SchemaInput struct{}

// GetSchemaTool returns the MCP tool handler for get_workoutlog_schema.
func (h *Handler) GetSchemaTool() func(context.Context, *mcp.CallToolRequest, SchemaInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SchemaInput) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	}
}

// RoutinesInput is the input for list_routines.
type RoutinesInput struct {
	IncludeArchived bool `json:"include_archived,omitempty" jsonschema:"Also return archived routines"`
}

// ListRoutinesTool returns the MCP tool handler for list_routines.
func (h *Handler) ListRoutinesTool() func(context.Context, *mcp.CallToolRequest, RoutinesInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RoutinesInput) (*mcp.CallToolResult, any, error) {
		routines, err := h.service.ListRoutines(ctx, in.IncludeArchived)
		if err != nil {
			return errorResult("Error listing routines: " + err.Error()), nil, nil
		}
		return jsonResult(routines), nil, nil
	}
}

// ExercisesInput is the input for list_exercises.
type ExercisesInput struct {
	Name        string `json:"name,omitempty" jsonschema:"Filter by exercise name (case insensitive substring)"`
	MuscleGroup string `json:"muscle_group,omitempty" jsonschema:"Filter by muscle group (e.g. chest, legs)"`
}

// ListExercisesTool returns the MCP tool handler for list_exercises.
func (h *Handler) ListExercisesTool() func(context.Context, *mcp.CallToolRequest, ExercisesInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExercisesInput) (*mcp.CallToolResult, any, error) {
		list, err := h.service.ListExercises(ctx, repo.ExerciseParams{
			Name:        in.Name,
			MuscleGroup: in.MuscleGroup,
		})
		if err != nil {
			return errorResult("Error listing exercises: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// TimeRangeInput is the input for the tools working over a date range.
type TimeRangeInput struct {
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End date (YYYY-MM-DD)"`
}

// GetWorkoutsForTimeRangeTool returns the MCP tool handler for get_workouts_for_time_range.
func (h *Handler) GetWorkoutsForTimeRangeTool() func(context.Context, *mcp.CallToolRequest, TimeRangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TimeRangeInput) (*mcp.CallToolResult, any, error) {
		from, to, errRes := parseRange(in)
		if errRes != nil {
			return errRes, nil, nil
		}
		workouts, err := h.service.ListWorkouts(ctx, from, to)
		if err != nil {
			return errorResult("Error listing workouts: " + err.Error()), nil, nil
		}
		return jsonResult(workouts), nil, nil
	}
}

// ExerciseHistoryInput is the input for get_exercise_history.
type ExerciseHistoryInput struct {
	ExerciseName string `json:"exercise_name" jsonschema:"Exercise name (e.g. Bench Press)"`
}

// GetExerciseHistoryTool returns the MCP tool handler for get_exercise_history.
func (h *Handler) GetExerciseHistoryTool() func(context.Context, *mcp.CallToolRequest, ExerciseHistoryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseHistoryInput) (*mcp.CallToolResult, any, error) {
		if in.ExerciseName == "" {
			return errorResult("Missing exercise_name"), nil, nil
		}
		history, err := h.service.GetExerciseHistory(ctx, in.ExerciseName)
		if err != nil {
			return errorResult("Error fetching exercise history: " + err.Error()), nil, nil
		}
		return jsonResult(history), nil, nil
	}
}

// GetAvgBlockDurationTool returns the MCP tool handler for get_avg_block_duration.
func (h *Handler) GetAvgBlockDurationTool() func(context.Context, *mcp.CallToolRequest, TimeRangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TimeRangeInput) (*mcp.CallToolResult, any, error) {
		from, to, errRes := parseRange(in)
		if errRes != nil {
			return errRes, nil, nil
		}
		resp, err := h.service.GetAvgBlockDuration(ctx, from, to)
		if err != nil {
			return errorResult("Error calculating block duration: " + err.Error()), nil, nil
		}
		return jsonResult(resp), nil, nil
	}
}

// parseRange parses both dates, the end of the range covers the whole to_date day.
func parseRange(in TimeRangeInput) (time.Time, time.Time, *mcp.CallToolResult) {
	from, err := time.Parse(time.DateOnly, in.FromDate)
	if err != nil {
		return time.Time{}, time.Time{}, errorResult("Invalid from_date: use YYYY-MM-DD")
	}
	to, err := time.Parse(time.DateOnly, in.ToDate)
	if err != nil {
		return time.Time{}, time.Time{}, errorResult("Invalid to_date: use YYYY-MM-DD")
	}
	to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, to.Location())
	return from, to, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return textResult(string(raw))
}
