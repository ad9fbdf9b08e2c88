package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ Store = (*MemStore)(nil)

// MemStore is an in-memory Store. Used in tests and by the "memory" store backend.
type MemStore struct {
	mu sync.Mutex

	routines    map[uuid.UUID]*Routine
	blockOwners map[uuid.UUID]uuid.UUID // block id -> routine id
	library     map[uuid.UUID]*Exercise
	workouts    map[uuid.UUID]*CompletedWorkout
	progress    map[uuid.UUID]*ExerciseProgress

	// op name -> error returned by the next call of that op
	failures map[string]error
}

func NewMemStore() *MemStore {
	return &MemStore{
		routines:    make(map[uuid.UUID]*Routine),
		blockOwners: make(map[uuid.UUID]uuid.UUID),
		library:     make(map[uuid.UUID]*Exercise),
		workouts:    make(map[uuid.UUID]*CompletedWorkout),
		progress:    make(map[uuid.UUID]*ExerciseProgress),
		failures:    make(map[string]error),
	}
}

// FailNext makes the next call of the named operation (e.g. "AddCompletedBlock") return err.
func (s *MemStore) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *MemStore) injected(op string) error {
	err, ok := s.failures[op]
	if !ok {
		return nil
	}
	delete(s.failures, op)
	return err
}

func (s *MemStore) AddRoutine(_ context.Context, routine *Routine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("AddRoutine"); err != nil {
		return err
	}

	ensureID(&routine.ID)
	assignRoutineIDs(routine)
	now := time.Now()
	routine.CreatedAt = now
	routine.UpdatedAt = now

	s.putRoutine(routine)
	return nil
}

func (s *MemStore) UpdateRoutine(_ context.Context, routine *Routine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateRoutine"); err != nil {
		return err
	}

	existing, ok := s.routines[routine.ID]
	if !ok {
		return ErrRoutineNotFound
	}
	for _, b := range existing.Blocks {
		delete(s.blockOwners, b.ID)
	}

	assignRoutineIDs(routine)
	routine.CreatedAt = existing.CreatedAt
	routine.UpdatedAt = time.Now()

	s.putRoutine(routine)
	return nil
}

func (s *MemStore) putRoutine(routine *Routine) {
	cp := copyRoutine(*routine)
	s.routines[routine.ID] = &cp
	for _, b := range routine.Blocks {
		s.blockOwners[b.ID] = routine.ID
	}
}

func (s *MemStore) DeleteRoutine(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("DeleteRoutine"); err != nil {
		return err
	}

	routine, ok := s.routines[id]
	if !ok {
		return ErrRoutineNotFound
	}
	for _, b := range routine.Blocks {
		delete(s.blockOwners, b.ID)
	}
	delete(s.routines, id)
	return nil
}

func (s *MemStore) GetRoutine(_ context.Context, id uuid.UUID) (*Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("GetRoutine"); err != nil {
		return nil, err
	}

	routine, ok := s.routines[id]
	if !ok {
		return nil, ErrRoutineNotFound
	}
	cp := copyRoutine(*routine)
	return &cp, nil
}

func (s *MemStore) ListRoutines(_ context.Context, params RoutineParams) ([]Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListRoutines"); err != nil {
		return nil, err
	}

	routines := make([]Routine, 0, len(s.routines))
	for _, r := range s.routines {
		if params.OnlyFavorites && !r.Favorite {
			continue
		}
		if !params.IncludeArchived && r.Archived {
			continue
		}
		routines = append(routines, copyRoutine(*r))
	}
	sort.Slice(routines, func(i, j int) bool {
		if routines[i].Day != routines[j].Day {
			return routines[i].Day < routines[j].Day
		}
		return routines[i].CreatedAt.Before(routines[j].CreatedAt)
	})
	return routines, nil
}

func (s *MemStore) UpdateBlockCompletedSets(_ context.Context, blockID uuid.UUID, completedSets int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateBlockCompletedSets"); err != nil {
		return err
	}

	routineID, ok := s.blockOwners[blockID]
	if !ok {
		return ErrBlockNotFound
	}
	routine := s.routines[routineID]
	for i := range routine.Blocks {
		if routine.Blocks[i].ID == blockID {
			routine.Blocks[i].CompletedSets = completedSets
			return nil
		}
	}
	return ErrBlockNotFound
}

func (s *MemStore) AddExercise(_ context.Context, exercise *Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("AddExercise"); err != nil {
		return err
	}

	ensureID(&exercise.ID)
	exercise.BlockID = nil
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now()
	}
	cp := copyExercise(*exercise)
	s.library[exercise.ID] = &cp
	return nil
}

func (s *MemStore) UpdateExercise(_ context.Context, exercise *Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateExercise"); err != nil {
		return err
	}

	existing, ok := s.library[exercise.ID]
	if !ok {
		return ErrExerciseNotFound
	}
	exercise.BlockID = nil
	exercise.CreatedAt = existing.CreatedAt
	cp := copyExercise(*exercise)
	s.library[exercise.ID] = &cp
	return nil
}

func (s *MemStore) DeleteExercise(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("DeleteExercise"); err != nil {
		return err
	}

	if _, ok := s.library[id]; !ok {
		return ErrExerciseNotFound
	}
	delete(s.library, id)
	for _, p := range s.progress {
		if p.ExerciseID != nil && *p.ExerciseID == id {
			p.ExerciseID = nil
		}
	}
	return nil
}

func (s *MemStore) GetExercise(_ context.Context, id uuid.UUID) (*Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("GetExercise"); err != nil {
		return nil, err
	}

	ex, ok := s.library[id]
	if !ok {
		return nil, ErrExerciseNotFound
	}
	cp := copyExercise(*ex)
	return &cp, nil
}

func (s *MemStore) ListExercises(_ context.Context, params ExerciseParams) ([]Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListExercises"); err != nil {
		return nil, err
	}

	exercises := make([]Exercise, 0, len(s.library))
	for _, ex := range s.library {
		if params.Name != "" && !strings.EqualFold(ex.Name, params.Name) {
			continue
		}
		if params.MuscleGroup != "" && !containsFold(ex.MuscleGroups, params.MuscleGroup) {
			continue
		}
		exercises = append(exercises, copyExercise(*ex))
	}
	sortExercises(exercises)
	return exercises, nil
}

func (s *MemStore) FindExerciseByName(ctx context.Context, name string) (*Exercise, error) {
	exercises, err := s.ListExercises(ctx, ExerciseParams{Name: name})
	if err != nil {
		return nil, err
	}
	if len(exercises) == 0 {
		return nil, ErrExerciseNotFound
	}
	return &exercises[0], nil
}

func (s *MemStore) AddCompletedWorkout(_ context.Context, workout *CompletedWorkout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("AddCompletedWorkout"); err != nil {
		return err
	}

	ensureID(&workout.ID)
	for i := range workout.Blocks {
		assignCompletedBlockIDs(&workout.Blocks[i], workout.ID)
	}
	cp := copyWorkout(*workout)
	s.workouts[workout.ID] = &cp
	return nil
}

func (s *MemStore) UpdateCompletedWorkout(_ context.Context, workout *CompletedWorkout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateCompletedWorkout"); err != nil {
		return err
	}

	existing, ok := s.workouts[workout.ID]
	if !ok {
		return ErrWorkoutNotFound
	}
	existing.EndedAt = copyTime(workout.EndedAt)
	existing.TotalSeconds = workout.TotalSeconds
	existing.RoutineName = workout.RoutineName
	return nil
}

func (s *MemStore) AddCompletedBlock(_ context.Context, block *CompletedBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("AddCompletedBlock"); err != nil {
		return err
	}

	workout, ok := s.workouts[block.WorkoutID]
	if !ok {
		return ErrWorkoutNotFound
	}
	assignCompletedBlockIDs(block, block.WorkoutID)
	workout.Blocks = append(workout.Blocks, copyCompletedBlock(*block))
	sort.SliceStable(workout.Blocks, func(i, j int) bool {
		return workout.Blocks[i].Position < workout.Blocks[j].Position
	})
	return nil
}

func (s *MemStore) UpdateCompletedBlock(_ context.Context, block *CompletedBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateCompletedBlock"); err != nil {
		return err
	}

	workout, ok := s.workouts[block.WorkoutID]
	if !ok {
		return ErrWorkoutNotFound
	}
	for i := range workout.Blocks {
		if workout.Blocks[i].ID == block.ID {
			workout.Blocks[i].Skipped = block.Skipped
			workout.Blocks[i].EndedAt = copyTime(block.EndedAt)
			workout.Blocks[i].DurationSeconds = block.DurationSeconds
			return nil
		}
	}
	return ErrBlockNotFound
}

func (s *MemStore) DeleteCompletedWorkout(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("DeleteCompletedWorkout"); err != nil {
		return err
	}

	workout, ok := s.workouts[id]
	if !ok {
		return ErrWorkoutNotFound
	}

	exerciseIDs := make(map[uuid.UUID]bool)
	for _, b := range workout.Blocks {
		for _, ex := range b.Exercises {
			exerciseIDs[ex.ID] = true
		}
	}
	for _, p := range s.progress {
		if p.CompletedExerciseID != nil && exerciseIDs[*p.CompletedExerciseID] {
			p.CompletedExerciseID = nil
		}
	}

	delete(s.workouts, id)
	return nil
}

func (s *MemStore) GetCompletedWorkout(_ context.Context, id uuid.UUID) (*CompletedWorkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("GetCompletedWorkout"); err != nil {
		return nil, err
	}

	workout, ok := s.workouts[id]
	if !ok {
		return nil, ErrWorkoutNotFound
	}
	cp := copyWorkout(*workout)
	return &cp, nil
}

func (s *MemStore) ListCompletedWorkouts(_ context.Context, params WorkoutParams) ([]CompletedWorkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListCompletedWorkouts"); err != nil {
		return nil, err
	}

	workouts := make([]CompletedWorkout, 0, len(s.workouts))
	for _, w := range s.workouts {
		if params.OnlyFinished && !w.IsFinished() {
			continue
		}
		if !inRange(w.StartedAt, params.From, params.To) {
			continue
		}
		workouts = append(workouts, copyWorkout(*w))
	}
	sort.Slice(workouts, func(i, j int) bool {
		return workouts[i].StartedAt.After(workouts[j].StartedAt)
	})
	if params.Limit > 0 && len(workouts) > params.Limit {
		workouts = workouts[:params.Limit]
	}
	return workouts, nil
}

func (s *MemStore) AddProgress(_ context.Context, entry *ExerciseProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("AddProgress"); err != nil {
		return err
	}

	ensureID(&entry.ID)
	cp := *entry
	cp.ExerciseID = copyUUID(entry.ExerciseID)
	cp.CompletedExerciseID = copyUUID(entry.CompletedExerciseID)
	s.progress[entry.ID] = &cp
	return nil
}

func (s *MemStore) ListProgress(_ context.Context, params ProgressParams) ([]ExerciseProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListProgress"); err != nil {
		return nil, err
	}

	entries := make([]ExerciseProgress, 0)
	for _, p := range s.progress {
		if params.ExerciseName != "" && !strings.EqualFold(p.ExerciseName, params.ExerciseName) {
			continue
		}
		if !inRange(p.Date, params.From, params.To) {
			continue
		}
		cp := *p
		cp.ExerciseID = copyUUID(p.ExerciseID)
		cp.CompletedExerciseID = copyUUID(p.CompletedExerciseID)
		entries = append(entries, cp)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	if params.Limit > 0 && len(entries) > params.Limit {
		entries = entries[:params.Limit]
	}
	return entries, nil
}

func assignRoutineIDs(routine *Routine) {
	for i := range routine.Blocks {
		ensureID(&routine.Blocks[i].ID)
		for j := range routine.Blocks[i].Exercises {
			ensureID(&routine.Blocks[i].Exercises[j].ID)
			if routine.Blocks[i].Exercises[j].CreatedAt.IsZero() {
				routine.Blocks[i].Exercises[j].CreatedAt = time.Now()
			}
		}
	}
	routine.Normalize()
}

func assignCompletedBlockIDs(block *CompletedBlock, workoutID uuid.UUID) {
	ensureID(&block.ID)
	block.WorkoutID = workoutID
	for i := range block.Exercises {
		ensureID(&block.Exercises[i].ID)
		block.Exercises[i].BlockID = block.ID
	}
}

func sortExercises(exercises []Exercise) {
	sort.Slice(exercises, func(i, j int) bool {
		ni, nj := strings.ToLower(exercises[i].Name), strings.ToLower(exercises[j].Name)
		if ni != nj {
			return ni < nj
		}
		return exercises[i].CreatedAt.Before(exercises[j].CreatedAt)
	})
}

func containsFold(values []string, v string) bool {
	for _, val := range values {
		if strings.EqualFold(val, v) {
			return true
		}
	}
	return false
}

func copyRoutine(r Routine) Routine {
	cp := r
	cp.MuscleGroups = append([]string(nil), r.MuscleGroups...)
	cp.Blocks = make([]Block, len(r.Blocks))
	for i, b := range r.Blocks {
		cb := b
		cb.Exercises = make([]Exercise, len(b.Exercises))
		for j, ex := range b.Exercises {
			cb.Exercises[j] = copyExercise(ex)
		}
		cp.Blocks[i] = cb
	}
	return cp
}

func copyExercise(ex Exercise) Exercise {
	cp := ex
	cp.BlockID = copyUUID(ex.BlockID)
	cp.MuscleGroups = append([]string(nil), ex.MuscleGroups...)
	return cp
}

func copyWorkout(w CompletedWorkout) CompletedWorkout {
	return *w.Clone()
}

func copyCompletedBlock(b CompletedBlock) CompletedBlock {
	return b.Clone()
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func copyUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	cp := *id
	return &cp
}
