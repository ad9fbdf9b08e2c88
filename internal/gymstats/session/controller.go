package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/events"
	"github.com/2beens/workoutlog/internal/gymstats/liveactivity"
	"github.com/2beens/workoutlog/internal/gymstats/repo"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=session
//go:generate mockgen -destination=broadcaster_mocks_test.go -package=session github.com/2beens/workoutlog/internal/gymstats/liveactivity Broadcaster

var (
	ErrNoBlocks          = errors.New("routine has no blocks")
	ErrWorkoutInProgress = errors.New("a workout is already in progress")
	ErrClosed            = errors.New("session controller closed")
)

const (
	DefaultTickInterval    = time.Second
	DefaultTransitionDelay = 300 * time.Millisecond
)

type eventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Params struct {
	Store       repo.Store
	Events      eventPublisher
	Broadcaster liveactivity.Broadcaster
	// Metrics is required
	Metrics *metrics.Manager
	// TickInterval is the period of the elapsed time / rest countdown tick
	TickInterval time.Duration
	// TransitionDelay separates the two steps of the view transitions
	TransitionDelay time.Duration
	Now             func() time.Time
}

// Controller drives a single workout session. All methods and the tick loop
// serialize on one mutex, store writes and broadcasts run asynchronously.
type Controller struct {
	store           repo.Store
	events          eventPublisher
	metrics         *metrics.Manager
	tickInterval    time.Duration
	transitionDelay time.Duration
	now             func() time.Time

	writer *writer
	relay  *relay

	mu     sync.Mutex
	closed bool
	// tick and transition goroutines
	wg sync.WaitGroup

	status         Status
	routine        *repo.Routine
	blockIndex     int
	workout        *repo.CompletedWorkout
	snapshotIdx    int // index of the active block snapshot in workout.Blocks, -1 if none
	completed      []uuid.UUID
	skipped        map[uuid.UUID]bool
	durations      map[uuid.UUID]int
	startedAt      *time.Time
	blockStartedAt *time.Time
	elapsed        int
	restRemaining  int
	fullView       bool
	minimized      bool
	showingSummary bool
	summary        *Summary

	tickStop       chan struct{}
	tickGen        int
	transitionStop chan struct{}

	subscribers map[int]chan State
	nextSubID   int
}

func NewController(params Params) *Controller {
	if params.TickInterval <= 0 {
		params.TickInterval = DefaultTickInterval
	}
	if params.TransitionDelay <= 0 {
		params.TransitionDelay = DefaultTransitionDelay
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Broadcaster == nil {
		params.Broadcaster = liveactivity.Nop{}
	}

	c := &Controller{
		store:           params.Store,
		events:          params.Events,
		metrics:         params.Metrics,
		tickInterval:    params.TickInterval,
		transitionDelay: params.TransitionDelay,
		now:             params.Now,
		writer:          newWriter(params.Metrics),
		relay:           newRelay(params.Broadcaster, params.Metrics),
		subscribers:     make(map[int]chan State),
	}
	c.resetSession()
	c.status = StatusIdle
	return c
}

// StartWorkout starts tracking the given routine.
func (c *Controller) StartWorkout(ctx context.Context, routineID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID.String()))

	routine, err := c.store.GetRoutine(ctx, routineID)
	if err != nil {
		return fmt.Errorf("get routine: %w", err)
	}
	if len(routine.Blocks) == 0 {
		return ErrNoBlocks
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.status.IsTracking() {
		return ErrWorkoutInProgress
	}

	c.resetSession()
	c.routine = routine

	// completed set counters are session scoped
	for i := range c.routine.Blocks {
		block := &c.routine.Blocks[i]
		block.CompletedSets = 0
		blockID := block.ID
		c.writer.enqueue(ctx, "reset_completed_sets", func(ctx context.Context) error {
			return c.store.UpdateBlockCompletedSets(ctx, blockID, 0)
		})
	}

	now := c.now()
	c.workout = repo.NewCompletedWorkout(routine.DisplayName(), now)
	workoutRecord := c.workout.Clone()
	c.writer.enqueue(ctx, "add_workout", func(ctx context.Context) error {
		return c.store.AddCompletedWorkout(ctx, workoutRecord)
	})

	c.startedAt = &now
	c.status = StatusActive
	c.fullView = true
	c.minimized = false
	c.startBlock(ctx, 0, now)

	c.relay.start(c.liveStatus())
	c.publishEvent(ctx, events.NewWorkoutStartedEvent(c.workout.Clone()))

	c.metrics.CounterWorkoutsStarted.Inc()
	c.metrics.GaugeActiveSession.Set(1)
	log.Debugf("workout started: %s [%s]", c.workout.RoutineName, c.workout.ID)

	c.publishState()
	return nil
}

// LogSet counts one set of the active block. Reaching the set target completes the block.
func (c *Controller) LogSet(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.status != StatusActive || c.snapshotIdx < 0 {
		return
	}
	block := &c.routine.Blocks[c.blockIndex]
	if block.CompletedSets >= block.Sets {
		return
	}

	block.CompletedSets++
	blockID, completedSets := block.ID, block.CompletedSets
	c.writer.enqueue(ctx, "update_completed_sets", func(ctx context.Context) error {
		return c.store.UpdateBlockCompletedSets(ctx, blockID, completedSets)
	})
	c.metrics.CounterSetsLogged.Inc()
	c.relay.update(c.liveStatus())

	if block.CompletedSets == block.Sets {
		if c.completeBlock(ctx, false) {
			c.advance(ctx, false)
		}
	}

	c.publishState()
}

// CompleteBlock finishes the active block (as skipped or done) and moves on:
// ends the workout after the last block, otherwise rests or advances to the next block.
func (c *Controller) CompleteBlock(ctx context.Context, skipped bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.status != StatusActive {
		return
	}
	if c.completeBlock(ctx, skipped) {
		c.advance(ctx, skipped)
	}
	c.publishState()
}

func (c *Controller) SkipBlock(ctx context.Context) {
	c.CompleteBlock(ctx, true)
}

// SkipRest ends the running rest countdown and advances to the next block.
func (c *Controller) SkipRest(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.status != StatusResting {
		return
	}
	c.updateCurrentBlock(ctx, c.blockIndex+1)
	c.publishState()
}

// UpdateCurrentBlock makes the block at newIndex the active one. Out of range indexes are ignored.
func (c *Controller) UpdateCurrentBlock(ctx context.Context, newIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.status.IsTracking() {
		return
	}
	if newIndex < 0 || newIndex >= len(c.routine.Blocks) {
		return
	}
	c.updateCurrentBlock(ctx, newIndex)
	c.publishState()
}

// EndWorkout finalizes the workout record and shows the summary. It returns the
// finalized record, nil if no workout was tracked.
func (c *Controller) EndWorkout(ctx context.Context) *repo.CompletedWorkout {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.end")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.status.IsTracking() {
		return nil
	}
	workout := c.endWorkout(ctx)
	c.publishState()
	return workout
}

// DismissWorkout aborts the workout and discards its record.
func (c *Controller) DismissWorkout(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.dismiss")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.status.IsTracking() {
		return
	}

	c.stopTicking()
	c.cancelTransition()
	c.relay.stop()

	workout := c.workout
	span.SetAttributes(attribute.String("workout.id", workout.ID.String()))

	c.resetSession()
	c.status = StatusIdle

	workoutID := workout.ID
	c.writer.enqueue(ctx, "delete_workout", func(ctx context.Context) error {
		return c.store.DeleteCompletedWorkout(ctx, workoutID)
	})
	c.publishEvent(ctx, events.NewWorkoutDismissedEvent(workout, c.now()))

	c.metrics.CounterWorkoutsDismissed.Inc()
	c.metrics.GaugeActiveSession.Set(0)
	log.Debugf("workout dismissed: %s [%s]", workout.RoutineName, workout.ID)

	c.publishState()
}

// CloseSummary hides the summary of the finished workout.
func (c *Controller) CloseSummary() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.status != StatusCompleted {
		return
	}
	c.status = StatusIdle
	c.showingSummary = false
	c.summary = nil
	c.publishState()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Flush waits until all store writes, events and broadcasts issued so far are done.
// After Close it returns right away.
func (c *Controller) Flush() {
	c.writer.flush()
	c.relay.flush()
}

// Close stops the tick loop, pending view transitions and the background writers.
// A tracked workout is left unfinished. Safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.status.IsTracking() {
		log.Warnf("closing session controller with workout %s in progress", c.workout.ID)
	}
	c.stopTicking()
	c.cancelTransition()
	for id, ch := range c.subscribers {
		close(ch)
		delete(c.subscribers, id)
	}
	c.mu.Unlock()

	c.wg.Wait()
	c.writer.close()
	c.relay.close()
}

// completeBlock closes the active block snapshot. Reports false when there is no active block.
func (c *Controller) completeBlock(ctx context.Context, skipped bool) bool {
	if c.blockStartedAt == nil || c.snapshotIdx < 0 {
		return false
	}

	now := c.now()
	snapshot := &c.workout.Blocks[c.snapshotIdx]
	blockID := c.routine.Blocks[c.blockIndex].ID

	snapshot.EndedAt = &now
	if skipped {
		snapshot.Skipped = true
		c.skipped[blockID] = true
		c.metrics.CounterBlocksSkipped.Inc()
	} else {
		duration := int(now.Sub(*c.blockStartedAt).Seconds())
		snapshot.DurationSeconds = duration
		c.durations[blockID] = duration
		c.metrics.HistBlockDuration.Observe(float64(duration))
	}
	if !c.isCompleted(blockID) {
		c.completed = append(c.completed, blockID)
	}

	record := snapshot.Clone()
	c.writer.enqueue(ctx, "update_block", func(ctx context.Context) error {
		return c.store.UpdateCompletedBlock(ctx, &record)
	})
	c.publishEvent(ctx, events.NewBlockDoneEvent(record, now))

	c.blockStartedAt = &now
	c.elapsed = 0
	c.snapshotIdx = -1
	return true
}

// advance applies the rest rule after a block was completed.
func (c *Controller) advance(ctx context.Context, skipped bool) {
	block := c.routine.Blocks[c.blockIndex]
	switch {
	case c.blockIndex == len(c.routine.Blocks)-1:
		c.endWorkout(ctx)
	case skipped, block.RestSeconds == 0:
		c.updateCurrentBlock(ctx, c.blockIndex+1)
	default:
		c.status = StatusResting
		c.restRemaining = block.RestSeconds
		c.relay.update(c.liveStatus())
	}
}

func (c *Controller) updateCurrentBlock(ctx context.Context, newIndex int) {
	c.blockIndex = newIndex
	c.status = StatusActive
	c.restRemaining = 0

	block := &c.routine.Blocks[newIndex]
	block.CompletedSets = 0
	blockID := block.ID
	c.writer.enqueue(ctx, "reset_completed_sets", func(ctx context.Context) error {
		return c.store.UpdateBlockCompletedSets(ctx, blockID, 0)
	})

	c.startBlock(ctx, newIndex, c.now())
	c.relay.update(c.liveStatus())
}

// startBlock snapshots the block at index and restarts the per block tick.
func (c *Controller) startBlock(ctx context.Context, index int, now time.Time) {
	snapshot := repo.NewCompletedBlock(c.routine.Blocks[index], c.workout.ID, len(c.workout.Blocks), now)
	c.workout.Blocks = append(c.workout.Blocks, snapshot)
	c.snapshotIdx = len(c.workout.Blocks) - 1

	record := snapshot.Clone()
	c.writer.enqueue(ctx, "add_block", func(ctx context.Context) error {
		return c.store.AddCompletedBlock(ctx, &record)
	})

	c.blockStartedAt = &now
	c.elapsed = 0
	c.startTicking()
}

func (c *Controller) endWorkout(ctx context.Context) *repo.CompletedWorkout {
	workout := c.workout

	if c.startedAt != nil {
		now := c.now()
		workout.EndedAt = &now
		workout.TotalSeconds = int(now.Sub(*c.startedAt).Seconds())

		record := workout.Clone()
		c.writer.enqueue(ctx, "update_workout", func(ctx context.Context) error {
			return c.store.UpdateCompletedWorkout(ctx, record)
		})
		c.publishEvent(ctx, events.NewWorkoutFinishedEvent(workout.Clone()))

		c.summary = &Summary{
			WorkoutID:       workout.ID,
			RoutineName:     workout.RoutineName,
			StartedAt:       workout.StartedAt,
			EndedAt:         now,
			TotalSeconds:    workout.TotalSeconds,
			TotalBlocks:     len(c.routine.Blocks),
			CompletedBlocks: append([]uuid.UUID{}, c.completed...),
			SkippedBlocks:   c.skippedIDs(),
			BlockDurations:  copyDurations(c.durations),
			Volume:          workout.Volume(),
		}
		c.showingSummary = true
		c.metrics.CounterWorkoutsFinished.Inc()
		c.metrics.HistWorkoutDuration.Observe(float64(workout.TotalSeconds))
		log.Debugf("workout finished: %s [%s], %ds", workout.RoutineName, workout.ID, workout.TotalSeconds)
	}

	c.relay.stop()
	c.stopTicking()
	c.metrics.GaugeActiveSession.Set(0)

	summary, showingSummary := c.summary, c.showingSummary
	c.resetSession()
	c.summary, c.showingSummary = summary, showingSummary
	if showingSummary {
		c.status = StatusCompleted
	} else {
		c.status = StatusIdle
	}

	return workout.Clone()
}

// resetSession clears all session scoped state, presentation flags included.
func (c *Controller) resetSession() {
	c.routine = nil
	c.blockIndex = 0
	c.workout = nil
	c.snapshotIdx = -1
	c.completed = nil
	c.skipped = make(map[uuid.UUID]bool)
	c.durations = make(map[uuid.UUID]int)
	c.startedAt = nil
	c.blockStartedAt = nil
	c.elapsed = 0
	c.restRemaining = 0
	c.fullView = false
	c.minimized = false
	c.showingSummary = false
	c.summary = nil
}

func (c *Controller) publishEvent(ctx context.Context, event events.Event) {
	if c.events == nil {
		return
	}
	c.writer.enqueue(ctx, "publish_"+event.Type.String(), func(ctx context.Context) error {
		return c.events.Publish(ctx, event)
	})
}

func (c *Controller) isCompleted(blockID uuid.UUID) bool {
	for _, id := range c.completed {
		if id == blockID {
			return true
		}
	}
	return false
}

// skippedIDs returns the skipped block ids in routine order.
func (c *Controller) skippedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.skipped))
	for _, id := range c.completed {
		if c.skipped[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *Controller) liveStatus() liveactivity.LiveStatus {
	block := c.routine.Blocks[c.blockIndex]
	status := liveactivity.LiveStatus{
		WorkoutID:     c.workout.ID,
		RoutineName:   c.workout.RoutineName,
		BlockName:     block.Name,
		BlockIndex:    c.blockIndex,
		TotalBlocks:   len(c.routine.Blocks),
		Progress:      liveactivity.BlockProgress(c.blockIndex, len(c.routine.Blocks)),
		CompletedSets: block.CompletedSets,
		TargetSets:    block.Sets,
		Resting:       c.status == StatusResting,
		RestRemaining: c.restRemaining,
		Exercises:     make([]liveactivity.LiveExercise, 0, len(block.Exercises)),
	}
	for _, ex := range block.Exercises {
		status.Exercises = append(status.Exercises, liveactivity.LiveExercise{
			Name:   ex.Name,
			Reps:   ex.Reps,
			Weight: ex.Weight,
		})
	}
	if c.startedAt != nil {
		status.StartedAt = *c.startedAt
		status.ElapsedSeconds = int(c.now().Sub(*c.startedAt).Seconds())
	}
	return status
}

func (c *Controller) snapshot() State {
	state := State{
		Status:            c.status,
		Tracking:          c.status.IsTracking(),
		CurrentBlockIndex: c.blockIndex,
		CompletedBlocks:   append([]uuid.UUID{}, c.completed...),
		SkippedBlocks:     c.skippedIDs(),
		BlockDurations:    copyDurations(c.durations),
		StartedAt:         copyTime(c.startedAt),
		BlockStartedAt:    copyTime(c.blockStartedAt),
		ElapsedSeconds:    c.elapsed,
		RestRemaining:     c.restRemaining,
		FullView:          c.fullView,
		Minimized:         c.minimized,
		ShowingSummary:    c.showingSummary,
	}
	if c.summary != nil {
		summary := *c.summary
		summary.CompletedBlocks = append([]uuid.UUID{}, c.summary.CompletedBlocks...)
		summary.SkippedBlocks = append([]uuid.UUID{}, c.summary.SkippedBlocks...)
		summary.BlockDurations = copyDurations(c.summary.BlockDurations)
		state.Summary = &summary
	}
	if c.workout != nil {
		state.WorkoutID = c.workout.ID
	}
	if c.routine != nil {
		state.RoutineID = c.routine.ID
		state.RoutineName = c.routine.DisplayName()
		state.TotalBlocks = len(c.routine.Blocks)

		block := c.routine.Blocks[c.blockIndex]
		current := &BlockState{
			ID:            block.ID,
			Name:          block.Name,
			Sets:          block.Sets,
			CompletedSets: block.CompletedSets,
			RestSeconds:   block.RestSeconds,
			Exercises:     make([]ExerciseState, 0, len(block.Exercises)),
		}
		for _, ex := range block.Exercises {
			current.Exercises = append(current.Exercises, ExerciseState{
				Name:   ex.Name,
				Reps:   ex.Reps,
				Weight: ex.Weight,
				Notes:  ex.Notes,
			})
		}
		state.CurrentBlock = current
	}
	return state
}

func copyDurations(durations map[uuid.UUID]int) map[uuid.UUID]int {
	cp := make(map[uuid.UUID]int, len(durations))
	for id, d := range durations {
		cp[id] = d
	}
	return cp
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
