package exercises

import (
	"errors"
	"slices"
	"strings"

	"github.com/2beens/workoutlog/internal/gymstats/repo"
)

var (
	ErrNameEmpty          = errors.New("exercise name is empty")
	ErrUnknownMuscleGroup = errors.New("unknown muscle group")
	ErrNegativeLoad       = errors.New("exercise reps and weight must not be negative")
)

var MuscleGroup = struct {
	Biceps    string
	Triceps   string
	Back      string
	Legs      string
	Chest     string
	Shoulders string
	Core      string
	Other     string
}{
	Biceps:    "biceps",
	Triceps:   "triceps",
	Back:      "back",
	Legs:      "legs",
	Chest:     "chest",
	Shoulders: "shoulders",
	Core:      "core",
	Other:     "other",
}

var MuscleGroups = []string{
	MuscleGroup.Biceps,
	MuscleGroup.Triceps,
	MuscleGroup.Back,
	MuscleGroup.Legs,
	MuscleGroup.Chest,
	MuscleGroup.Shoulders,
	MuscleGroup.Core,
	MuscleGroup.Other,
}

func IsValidMuscleGroup(muscleGroup string) bool {
	return slices.Contains(MuscleGroups, strings.ToLower(muscleGroup))
}

// normalize trims the name and lower cases muscle groups, then validates the library record.
func normalize(exercise *repo.Exercise) error {
	exercise.Name = strings.TrimSpace(exercise.Name)
	if exercise.Name == "" {
		return ErrNameEmpty
	}
	if exercise.Reps < 0 || exercise.Weight < 0 {
		return ErrNegativeLoad
	}
	for i, mg := range exercise.MuscleGroups {
		if !IsValidMuscleGroup(mg) {
			return ErrUnknownMuscleGroup
		}
		exercise.MuscleGroups[i] = strings.ToLower(mg)
	}
	return nil
}
