package liveactivity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LiveStatus is the value pushed to the live status surface (lock screen widget, watch, ...)
// while a workout is being tracked.
type LiveStatus struct {
	WorkoutID      uuid.UUID      `json:"workoutId"`
	RoutineName    string         `json:"routineName"`
	BlockName      string         `json:"blockName"`
	BlockIndex     int            `json:"blockIndex"`
	TotalBlocks    int            `json:"totalBlocks"`
	Progress       float64        `json:"progress"`
	CompletedSets  int            `json:"completedSets"`
	TargetSets     int            `json:"targetSets"`
	Resting        bool           `json:"resting"`
	RestRemaining  int            `json:"restRemaining"`
	Exercises      []LiveExercise `json:"exercises"`
	ElapsedSeconds int            `json:"elapsedSeconds"`
	StartedAt      time.Time      `json:"startedAt"`
}

type LiveExercise struct {
	Name   string  `json:"name"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// BlockProgress is the (index+1)/total fraction of the current block.
func BlockProgress(index, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(index+1) / float64(total)
}

// Broadcaster publishes the live status of the tracked workout. Stop must be safe
// to call when nothing is being broadcast.
type Broadcaster interface {
	Start(ctx context.Context, status LiveStatus) error
	Update(ctx context.Context, status LiveStatus) error
	Stop(ctx context.Context) error
}

// Nop is used when live status broadcasting is disabled.
type Nop struct{}

var _ Broadcaster = Nop{}

func (Nop) Start(context.Context, LiveStatus) error  { return nil }
func (Nop) Update(context.Context, LiveStatus) error { return nil }
func (Nop) Stop(context.Context) error               { return nil }
