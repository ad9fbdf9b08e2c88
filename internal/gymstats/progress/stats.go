package progress

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/2beens/workoutlog/internal/cache"
	"github.com/2beens/workoutlog/internal/gymstats/repo"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultHistoryCacheTTL = 30 * time.Minute

// ExerciseHistory represents the history of an exercise
// so that, for each day, we get the average weight and reps per set
type ExerciseHistory struct {
	ExerciseName string     `json:"exerciseName"`
	Days         []DayStats `json:"days"`
}

type DayStats struct {
	Day       time.Time `json:"day"`
	AvgWeight float64   `json:"avgWeight"`
	MaxWeight float64   `json:"maxWeight"`
	AvgReps   int       `json:"avgReps"`
	// Entries is the number of progress entries of the day, one per exercise per workout
	Entries int `json:"entries"`
}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=progress_test

type progressStore interface {
	AddProgress(ctx context.Context, entry *repo.ExerciseProgress) error
	ListProgress(ctx context.Context, params repo.ProgressParams) ([]repo.ExerciseProgress, error)
	FindExerciseByName(ctx context.Context, name string) (*repo.Exercise, error)
}

// Stats aggregates progress entries per day. Results are cached until a new
// entry for the same exercise is recorded.
type Stats struct {
	store progressStore
	cache cache.Cache
	ttl   time.Duration

	// generations counts invalidations per cache key. A history read from the store
	// is cached only if its key was not invalidated while the read was in flight.
	mu          sync.Mutex
	generations map[string]uint64
}

func NewStats(store progressStore, c cache.Cache, ttl time.Duration) *Stats {
	if ttl <= 0 {
		ttl = DefaultHistoryCacheTTL
	}
	return &Stats{
		store:       store,
		cache:       c,
		ttl:         ttl,
		generations: make(map[string]uint64),
	}
}

func historyCacheKey(exerciseName string) string {
	return "history::" + strings.ToLower(strings.TrimSpace(exerciseName))
}

func (s *Stats) ExerciseHistory(ctx context.Context, exerciseName string) (_ *ExerciseHistory, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "stats.progress.exerciseHistory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", exerciseName))

	cacheKey := historyCacheKey(exerciseName)
	if s.cache != nil {
		if historyBytes, found := s.cache.Get(cacheKey); found {
			var history ExerciseHistory
			unmarshalErr := json.Unmarshal(historyBytes, &history)
			if unmarshalErr == nil {
				log.Tracef("found exercise history for %s in cache", exerciseName)
				return &history, nil
			}
			log.Errorf("failed to unmarshal exercise history from cache for %s: %s", exerciseName, unmarshalErr)
		}
	}

	generation := s.generation(cacheKey)
	entries, err := s.store.ListProgress(ctx, repo.ProgressParams{
		ExerciseName: exerciseName,
	})
	if err != nil {
		return nil, err
	}

	history := &ExerciseHistory{
		ExerciseName: exerciseName,
		Days:         []DayStats{},
	}

	day2entries := make(map[time.Time][]repo.ExerciseProgress)
	for _, e := range entries {
		day := e.Date.UTC().Truncate(24 * time.Hour)
		day2entries[day] = append(day2entries[day], e)
	}

	for day, dayEntries := range day2entries {
		stats := DayStats{
			Day:  day,
			Entries: len(dayEntries),
		}
		var totalWeight float64
		var totalReps int
		for _, e := range dayEntries {
			totalWeight += e.Weight
			totalReps += e.Reps
			if e.Weight > stats.MaxWeight {
				stats.MaxWeight = e.Weight
			}
		}
		stats.AvgWeight = totalWeight / float64(len(dayEntries))
		stats.AvgReps = totalReps / len(dayEntries)
		history.Days = append(history.Days, stats)
	}
	sort.Slice(history.Days, func(i, j int) bool {
		return history.Days[i].Day.Before(history.Days[j].Day)
	})

	if s.cache != nil {
		historyBytes, err := json.Marshal(history)
		if err != nil {
			log.Errorf("failed to marshal exercise history for %s: %s", exerciseName, err)
		} else {
			s.cacheIfCurrent(cacheKey, generation, historyBytes)
		}
	}

	return history, nil
}

func (s *Stats) Invalidate(exerciseName string) {
	if s.cache == nil {
		return
	}
	cacheKey := historyCacheKey(exerciseName)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[cacheKey]++
	s.cache.Del(cacheKey)
}

func (s *Stats) generation(cacheKey string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[cacheKey]
}

// cacheIfCurrent stores the history unless the key was invalidated after generation was read.
func (s *Stats) cacheIfCurrent(cacheKey string, generation uint64, historyBytes []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[cacheKey] != generation {
		log.Tracef("exercise history %s invalidated while loading, not cached", cacheKey)
		return
	}
	if err := s.cache.Set(cacheKey, historyBytes, s.ttl); err != nil {
		log.Errorf("failed to write exercise history cache for %s: %s", cacheKey, err)
	}
}
