package repo

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRoutineNoDay    = errors.New("routine day label is empty")
	ErrRoutineNoBlocks = errors.New("routine has no blocks")
	ErrBlockNoName     = errors.New("block name is empty")
	ErrBlockNoSets     = errors.New("block must have at least one set")
	ErrBlockNegRest    = errors.New("block rest seconds negative")
)

// Routine is a user defined workout plan, made of ordered blocks.
type Routine struct {
	ID           uuid.UUID `json:"id"`
	Day          string    `json:"day"`
	MuscleGroups []string  `json:"muscleGroups"`
	Notes        string    `json:"notes"`
	Blocks       []Block   `json:"blocks"`
	Favorite     bool      `json:"favorite"`
	Archived     bool      `json:"archived"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Block is a group of exercises done together for a number of sets,
// followed by an optional rest period.
type Block struct {
	ID          uuid.UUID `json:"id"`
	RoutineID   uuid.UUID `json:"routineId"`
	Name        string    `json:"name"`
	Sets        int       `json:"sets"`
	RestSeconds int       `json:"restSeconds"`
	// CompletedSets is session scoped, reset whenever a workout starts.
	CompletedSets int        `json:"completedSets"`
	Position      int        `json:"position"`
	Exercises     []Exercise `json:"exercises"`
}

// Exercise either lives in the library (BlockID == nil) or is a copy owned by a block.
type Exercise struct {
	ID           uuid.UUID  `json:"id"`
	BlockID      *uuid.UUID `json:"blockId,omitempty"`
	Name         string     `json:"name"`
	Reps         int        `json:"reps"`
	Weight       float64    `json:"weight"`
	MuscleGroups []string   `json:"muscleGroups"`
	Notes        string     `json:"notes"`
	Position     int        `json:"position"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (r *Routine) Validate() error {
	if strings.TrimSpace(r.Day) == "" {
		return ErrRoutineNoDay
	}
	if len(r.Blocks) == 0 {
		return ErrRoutineNoBlocks
	}
	for i := range r.Blocks {
		if err := r.Blocks[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DisplayName is the day label followed by the targeted muscle groups, if any.
func (r *Routine) DisplayName() string {
	if len(r.MuscleGroups) == 0 {
		return r.Day
	}
	return r.Day + " - " + strings.Join(r.MuscleGroups, ", ")
}

func (r *Routine) TotalSets() int {
	total := 0
	for _, b := range r.Blocks {
		total += b.Sets
	}
	return total
}

func (r *Routine) ExerciseCount() int {
	count := 0
	for _, b := range r.Blocks {
		count += len(b.Exercises)
	}
	return count
}

// Normalize assigns positions and back references of blocks and block exercises.
func (r *Routine) Normalize() {
	for i := range r.Blocks {
		b := &r.Blocks[i]
		b.Position = i
		b.RoutineID = r.ID
		for j := range b.Exercises {
			ex := &b.Exercises[j]
			ex.Position = j
			blockID := b.ID
			ex.BlockID = &blockID
		}
	}
}

func (b *Block) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrBlockNoName
	}
	if b.Sets < 1 {
		return ErrBlockNoSets
	}
	if b.RestSeconds < 0 {
		return ErrBlockNegRest
	}
	return nil
}

func (b *Block) IsComplete() bool {
	return b.CompletedSets >= b.Sets
}

func (e *Exercise) IsLibrary() bool {
	return e.BlockID == nil
}

// CopyForBlock returns a copy of the exercise with a fresh identity, owned by the given block.
func (e *Exercise) CopyForBlock(blockID uuid.UUID) Exercise {
	cp := *e
	cp.ID = uuid.New()
	cp.BlockID = &blockID
	cp.MuscleGroups = append([]string(nil), e.MuscleGroups...)
	return cp
}
