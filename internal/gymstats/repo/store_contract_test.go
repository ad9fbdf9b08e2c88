package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks the behaviour every Store implementation must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("routines crud", func(t *testing.T) {
		testRoutinesCRUD(t, newStore(t))
	})
	t.Run("routines list filters", func(t *testing.T) {
		testRoutinesList(t, newStore(t))
	})
	t.Run("block completed sets", func(t *testing.T) {
		testBlockCompletedSets(t, newStore(t))
	})
	t.Run("exercise library", func(t *testing.T) {
		testExerciseLibrary(t, newStore(t))
	})
	t.Run("workout history", func(t *testing.T) {
		testWorkoutHistory(t, newStore(t))
	})
	t.Run("progress", func(t *testing.T) {
		testProgress(t, newStore(t))
	})
}

func testRoutine(day string) *Routine {
	return &Routine{
		Day:          day,
		MuscleGroups: []string{"Chest", "Triceps"},
		Blocks: []Block{
			{
				Name:        "Bench",
				Sets:        3,
				RestSeconds: 90,
				Exercises: []Exercise{
					{Name: "Bench Press", Reps: 8, Weight: 80},
					{Name: "Push Ups", Reps: 15},
				},
			},
			{
				Name:        "Dips",
				Sets:        2,
				RestSeconds: 0,
				Exercises: []Exercise{
					{Name: "Dips", Reps: 10, Weight: 10},
				},
			},
		},
	}
}

func testRoutinesCRUD(t *testing.T, store Store) {
	ctx := context.Background()

	routine := testRoutine("A day")
	require.NoError(t, store.AddRoutine(ctx, routine))
	require.NotEqual(t, uuid.Nil, routine.ID)
	for i, b := range routine.Blocks {
		assert.NotEqual(t, uuid.Nil, b.ID)
		assert.Equal(t, i, b.Position)
		assert.Equal(t, routine.ID, b.RoutineID)
		for j, ex := range b.Exercises {
			assert.NotEqual(t, uuid.Nil, ex.ID)
			assert.Equal(t, j, ex.Position)
			require.NotNil(t, ex.BlockID)
			assert.Equal(t, b.ID, *ex.BlockID)
		}
	}

	got, err := store.GetRoutine(ctx, routine.ID)
	require.NoError(t, err)
	assert.Equal(t, "A day - Chest, Triceps", got.DisplayName())
	require.Len(t, got.Blocks, 2)
	assert.Equal(t, "Bench", got.Blocks[0].Name)
	assert.Equal(t, 90, got.Blocks[0].RestSeconds)
	require.Len(t, got.Blocks[0].Exercises, 2)
	assert.Equal(t, "Bench Press", got.Blocks[0].Exercises[0].Name)
	assert.Equal(t, "Push Ups", got.Blocks[0].Exercises[1].Name)
	assert.Equal(t, "Dips", got.Blocks[1].Name)
	assert.Equal(t, 5, got.TotalSets())
	assert.Equal(t, 3, got.ExerciseCount())

	// replace the blocks
	got.Notes = "heavy"
	got.Blocks = []Block{
		{Name: "Flyes", Sets: 4, Exercises: []Exercise{{Name: "Cable Fly", Reps: 12, Weight: 15}}},
	}
	require.NoError(t, store.UpdateRoutine(ctx, got))

	updated, err := store.GetRoutine(ctx, routine.ID)
	require.NoError(t, err)
	assert.Equal(t, "heavy", updated.Notes)
	require.Len(t, updated.Blocks, 1)
	assert.Equal(t, "Flyes", updated.Blocks[0].Name)
	require.Len(t, updated.Blocks[0].Exercises, 1)
	assert.Equal(t, "Cable Fly", updated.Blocks[0].Exercises[0].Name)

	missing := testRoutine("missing")
	missing.ID = uuid.New()
	assert.ErrorIs(t, store.UpdateRoutine(ctx, missing), ErrRoutineNotFound)

	require.NoError(t, store.DeleteRoutine(ctx, routine.ID))
	_, err = store.GetRoutine(ctx, routine.ID)
	assert.ErrorIs(t, err, ErrRoutineNotFound)
	assert.ErrorIs(t, store.DeleteRoutine(ctx, routine.ID), ErrRoutineNotFound)
}

func testRoutinesList(t *testing.T, store Store) {
	ctx := context.Background()

	plain := testRoutine("A day")
	favorite := testRoutine("B day")
	favorite.Favorite = true
	archived := testRoutine("C day")
	archived.Archived = true
	for _, r := range []*Routine{plain, favorite, archived} {
		require.NoError(t, store.AddRoutine(ctx, r))
	}

	routines, err := store.ListRoutines(ctx, RoutineParams{})
	require.NoError(t, err)
	require.Len(t, routines, 2)
	assert.Equal(t, "A day", routines[0].Day)
	assert.Equal(t, "B day", routines[1].Day)
	assert.Len(t, routines[0].Blocks, 2)

	routines, err = store.ListRoutines(ctx, RoutineParams{OnlyFavorites: true})
	require.NoError(t, err)
	require.Len(t, routines, 1)
	assert.Equal(t, favorite.ID, routines[0].ID)

	routines, err = store.ListRoutines(ctx, RoutineParams{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, routines, 3)
}

func testBlockCompletedSets(t *testing.T, store Store) {
	ctx := context.Background()

	routine := testRoutine("A day")
	require.NoError(t, store.AddRoutine(ctx, routine))

	blockID := routine.Blocks[0].ID
	require.NoError(t, store.UpdateBlockCompletedSets(ctx, blockID, 2))

	got, err := store.GetRoutine(ctx, routine.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Blocks[0].CompletedSets)
	assert.Equal(t, 0, got.Blocks[1].CompletedSets)
	assert.False(t, got.Blocks[0].IsComplete())

	assert.ErrorIs(t, store.UpdateBlockCompletedSets(ctx, uuid.New(), 1), ErrBlockNotFound)
}

func testExerciseLibrary(t *testing.T, store Store) {
	ctx := context.Background()

	// block owned copies never show up in the library
	routine := testRoutine("A day")
	require.NoError(t, store.AddRoutine(ctx, routine))

	bench := &Exercise{Name: "Bench Press", Reps: 5, Weight: 100, MuscleGroups: []string{"Chest"}}
	squat := &Exercise{Name: "Squat", Reps: 5, Weight: 120, MuscleGroups: []string{"Legs"}}
	require.NoError(t, store.AddExercise(ctx, bench))
	require.NoError(t, store.AddExercise(ctx, squat))
	assert.True(t, bench.IsLibrary())

	all, err := store.ListExercises(ctx, ExerciseParams{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bench Press", all[0].Name)
	assert.Equal(t, "Squat", all[1].Name)

	legs, err := store.ListExercises(ctx, ExerciseParams{MuscleGroup: "legs"})
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, squat.ID, legs[0].ID)

	found, err := store.FindExerciseByName(ctx, "bench press")
	require.NoError(t, err)
	assert.Equal(t, bench.ID, found.ID)

	_, err = store.FindExerciseByName(ctx, "Push Ups")
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	bench.Weight = 105
	require.NoError(t, store.UpdateExercise(ctx, bench))
	got, err := store.GetExercise(ctx, bench.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(105), got.Weight)

	blockExercise := routine.Blocks[0].Exercises[0]
	_, err = store.GetExercise(ctx, blockExercise.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	require.NoError(t, store.DeleteExercise(ctx, squat.ID))
	assert.ErrorIs(t, store.DeleteExercise(ctx, squat.ID), ErrExerciseNotFound)
	_, err = store.GetExercise(ctx, squat.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func testWorkoutHistory(t *testing.T, store Store) {
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	older := NewCompletedWorkout("Old day", now.Add(-48*time.Hour))
	require.NoError(t, store.AddCompletedWorkout(ctx, older))
	olderEnd := now.Add(-47 * time.Hour)
	older.EndedAt = &olderEnd
	older.TotalSeconds = 3600
	require.NoError(t, store.UpdateCompletedWorkout(ctx, older))

	routine := testRoutine("A day")
	workout := NewCompletedWorkout(routine.DisplayName(), now)
	require.NoError(t, store.AddCompletedWorkout(ctx, workout))

	block := NewCompletedBlock(routine.Blocks[0], workout.ID, 0, now)
	require.NoError(t, store.AddCompletedBlock(ctx, &block))

	ended := now.Add(5 * time.Minute)
	block.EndedAt = &ended
	block.DurationSeconds = 300
	block.Skipped = true
	require.NoError(t, store.UpdateCompletedBlock(ctx, &block))

	orphan := NewCompletedBlock(routine.Blocks[1], uuid.New(), 0, now)
	assert.ErrorIs(t, store.AddCompletedBlock(ctx, &orphan), ErrWorkoutNotFound)

	got, err := store.GetCompletedWorkout(ctx, workout.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFinished())
	require.Len(t, got.Blocks, 1)
	assert.True(t, got.Blocks[0].Skipped)
	assert.Equal(t, 300, got.Blocks[0].DurationSeconds)
	assert.Equal(t, 1, got.SkippedCount())
	require.Len(t, got.Blocks[0].Exercises, 2)
	assert.Equal(t, "Bench Press", got.Blocks[0].Exercises[0].Name)

	all, err := store.ListCompletedWorkouts(ctx, WorkoutParams{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, workout.ID, all[0].ID)
	assert.Equal(t, older.ID, all[1].ID)

	finished, err := store.ListCompletedWorkouts(ctx, WorkoutParams{OnlyFinished: true})
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.Equal(t, older.ID, finished[0].ID)
	assert.Equal(t, time.Hour, finished[0].Duration())

	from := now.Add(-time.Hour)
	recent, err := store.ListCompletedWorkouts(ctx, WorkoutParams{From: &from})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, workout.ID, recent[0].ID)

	limited, err := store.ListCompletedWorkouts(ctx, WorkoutParams{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	// progress entries survive the deletion of the workout they came from
	exerciseID := got.Blocks[0].Exercises[0].ID
	entry := &ExerciseProgress{
		Date:                now,
		Weight:              80,
		Reps:                8,
		ExerciseName:        "Bench Press",
		CompletedExerciseID: &exerciseID,
	}
	require.NoError(t, store.AddProgress(ctx, entry))

	require.NoError(t, store.DeleteCompletedWorkout(ctx, workout.ID))
	_, err = store.GetCompletedWorkout(ctx, workout.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
	assert.ErrorIs(t, store.DeleteCompletedWorkout(ctx, workout.ID), ErrWorkoutNotFound)

	entries, err := store.ListProgress(ctx, ProgressParams{ExerciseName: "Bench Press"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].CompletedExerciseID)
}

func testProgress(t *testing.T, store Store) {
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	for i, name := range []string{"Squat", "squat", "Bench Press"} {
		require.NoError(t, store.AddProgress(ctx, &ExerciseProgress{
			Date:         now.Add(time.Duration(i) * time.Hour),
			Weight:       float64(100 + i),
			Reps:         5,
			ExerciseName: name,
		}))
	}

	squats, err := store.ListProgress(ctx, ProgressParams{ExerciseName: "SQUAT"})
	require.NoError(t, err)
	require.Len(t, squats, 2)
	assert.Equal(t, float64(101), squats[0].Weight)
	assert.Equal(t, float64(100), squats[1].Weight)

	all, err := store.ListProgress(ctx, ProgressParams{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	to := now.Add(30 * time.Minute)
	early, err := store.ListProgress(ctx, ProgressParams{To: &to})
	require.NoError(t, err)
	require.Len(t, early, 1)
	assert.Equal(t, "Squat", early[0].ExerciseName)

	limited, err := store.ListProgress(ctx, ProgressParams{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
