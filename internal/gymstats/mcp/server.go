package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with workout log tools: schema, routines, exercise library,
// completed workouts, exercise history, avg block duration.
// Used by the main backend when mounting MCP at /mcp, and by the stdio command.
func NewServer(svc *ContextService) *mcp.Server {
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "workoutlog-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workoutlog_schema",
		Description: "Returns the DB schema for the workout log tables (routine, block, exercise, completed_workout, completed_block, completed_exercise, exercise_progress, gymstats_event): table names, columns, types, nullable, default.",
	}, h.GetSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_routines",
		Description: "Returns the workout routines with their ordered blocks and exercises. Optional: include_archived.",
	}, h.ListRoutinesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_exercises",
		Description: "Returns the exercise library (name, muscle groups, default weight and reps). Optional filters: name, muscle_group.",
	}, h.ListExercisesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workouts_for_time_range",
		Description: "Returns completed workouts (with their blocks and exercises) started within the given date range. Args: from_date, to_date (YYYY-MM-DD).",
	}, h.GetWorkoutsForTimeRangeTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_history",
		Description: "Returns per-day stats (avg and max weight, avg reps, entry count) for an exercise. Arg: exercise_name. Use when you need progression over time (e.g. how has bench press improved).",
	}, h.GetExerciseHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_avg_block_duration",
		Description: "Returns the average block duration (overall and per day) and the average workout duration of finished workouts in a date range. Args: from_date, to_date (YYYY-MM-DD).",
	}, h.GetAvgBlockDurationTool())

	return s
}

// NewHTTPHandler serves the given MCP server over streamable HTTP.
func NewHTTPHandler(s *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s
	}, nil)
}
