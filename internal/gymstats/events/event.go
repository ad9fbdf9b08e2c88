package events

import (
	"strconv"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/repo"
)

// Event is a session lifecycle event. Data holds the flat, durable part of the event,
// Workout is only set for in-process listeners and is never persisted.
type Event struct {
	ID        int                    `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]string      `json:"data"`
	Workout   *repo.CompletedWorkout `json:"-"`
}

func NewWorkoutStartedEvent(workout *repo.CompletedWorkout) Event {
	return Event{
		Type:      EventTypeWorkoutStarted,
		Timestamp: workout.StartedAt,
		Data: map[string]string{
			"workoutId": workout.ID.String(),
			"routine":   workout.RoutineName,
		},
		Workout: workout,
	}
}

func NewBlockDoneEvent(block repo.CompletedBlock, ts time.Time) Event {
	eventType := EventTypeBlockCompleted
	if block.Skipped {
		eventType = EventTypeBlockSkipped
	}
	return Event{
		Type:      eventType,
		Timestamp: ts,
		Data: map[string]string{
			"workoutId": block.WorkoutID.String(),
			"blockId":   block.ID.String(),
			"block":     block.Name,
			"position":  strconv.Itoa(block.Position),
			"duration":  strconv.Itoa(block.DurationSeconds),
		},
	}
}

// NewWorkoutFinishedEvent is the session completion event, it carries the finalized workout.
func NewWorkoutFinishedEvent(workout *repo.CompletedWorkout) Event {
	ts := time.Now()
	if workout.EndedAt != nil {
		ts = *workout.EndedAt
	}
	return Event{
		Type:      EventTypeWorkoutFinished,
		Timestamp: ts,
		Data: map[string]string{
			"workoutId":    workout.ID.String(),
			"routine":      workout.RoutineName,
			"totalSeconds": strconv.Itoa(workout.TotalSeconds),
			"blocks":       strconv.Itoa(len(workout.Blocks)),
			"skipped":      strconv.Itoa(workout.SkippedCount()),
		},
		Workout: workout,
	}
}

func NewWorkoutDismissedEvent(workout *repo.CompletedWorkout, ts time.Time) Event {
	return Event{
		Type:      EventTypeWorkoutDismissed,
		Timestamp: ts,
		Data: map[string]string{
			"workoutId": workout.ID.String(),
			"routine":   workout.RoutineName,
		},
	}
}

// EventType can be one of:
//   - workout_started
//   - block_completed
//   - block_skipped
//   - workout_finished
//   - workout_dismissed
type EventType string

const (
	EventTypeWorkoutStarted   EventType = "workout_started"
	EventTypeBlockCompleted   EventType = "block_completed"
	EventTypeBlockSkipped     EventType = "block_skipped"
	EventTypeWorkoutFinished  EventType = "workout_finished"
	EventTypeWorkoutDismissed EventType = "workout_dismissed"
)

func (et EventType) String() string {
	return string(et)
}

func (et EventType) IsValid() bool {
	switch et {
	case EventTypeWorkoutStarted,
		EventTypeBlockCompleted,
		EventTypeBlockSkipped,
		EventTypeWorkoutFinished,
		EventTypeWorkoutDismissed:
		return true
	default:
		return false
	}
}
