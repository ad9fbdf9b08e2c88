package session

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusActive    Status = "active"
	StatusResting   Status = "resting"
	StatusCompleted Status = "completed"
)

// IsTracking reports whether a workout is in progress.
func (s Status) IsTracking() bool {
	return s == StatusActive || s == StatusResting
}

// State is an immutable snapshot of the controller state.
type State struct {
	Status            Status            `json:"status"`
	Tracking          bool              `json:"tracking"`
	RoutineID         uuid.UUID         `json:"routineId"`
	RoutineName       string            `json:"routineName"`
	WorkoutID         uuid.UUID         `json:"workoutId"`
	CurrentBlockIndex int               `json:"currentBlockIndex"`
	TotalBlocks       int               `json:"totalBlocks"`
	CurrentBlock      *BlockState       `json:"currentBlock,omitempty"`
	CompletedBlocks   []uuid.UUID       `json:"completedBlocks"`
	SkippedBlocks     []uuid.UUID       `json:"skippedBlocks"`
	BlockDurations    map[uuid.UUID]int `json:"blockDurations"`
	StartedAt         *time.Time        `json:"startedAt,omitempty"`
	BlockStartedAt    *time.Time        `json:"blockStartedAt,omitempty"`
	ElapsedSeconds    int               `json:"elapsedSeconds"`
	RestRemaining     int               `json:"restRemaining"`
	FullView          bool              `json:"fullView"`
	Minimized         bool              `json:"minimized"`
	ShowingSummary    bool              `json:"showingSummary"`
	Summary           *Summary          `json:"summary,omitempty"`
}

type BlockState struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Sets          int             `json:"sets"`
	CompletedSets int             `json:"completedSets"`
	RestSeconds   int             `json:"restSeconds"`
	Exercises     []ExerciseState `json:"exercises"`
}

type ExerciseState struct {
	Name   string  `json:"name"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	Notes  string  `json:"notes,omitempty"`
}

// Summary describes the last finished workout, shown until closed or a new workout starts.
type Summary struct {
	WorkoutID       uuid.UUID         `json:"workoutId"`
	RoutineName     string            `json:"routineName"`
	StartedAt       time.Time         `json:"startedAt"`
	EndedAt         time.Time         `json:"endedAt"`
	TotalSeconds    int               `json:"totalSeconds"`
	TotalBlocks     int               `json:"totalBlocks"`
	CompletedBlocks []uuid.UUID       `json:"completedBlocks"`
	SkippedBlocks   []uuid.UUID       `json:"skippedBlocks"`
	BlockDurations  map[uuid.UUID]int `json:"blockDurations"`
	Volume          float64           `json:"volume"`
}
