package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterWorkoutsStarted     prometheus.Counter
	CounterWorkoutsFinished    prometheus.Counter
	CounterWorkoutsDismissed   prometheus.Counter
	CounterSetsLogged          prometheus.Counter
	CounterBlocksSkipped       prometheus.Counter
	CounterPersistenceFailures *prometheus.CounterVec
	CounterBroadcastFailures   prometheus.Counter

	// gauges
	GaugeRequests      prometheus.Gauge
	GaugeLifeSignal    prometheus.Gauge
	GaugeActiveSession prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistWorkoutDuration      prometheus.Histogram
	HistBlockDuration        prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("backend", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("backend", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterWorkoutsStarted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_started",
		Help:      "The total number of started workout sessions",
	})
	counterWorkoutsFinished := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_finished",
		Help:      "The total number of finished workout sessions",
	})
	counterWorkoutsDismissed := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_dismissed",
		Help:      "The total number of dismissed (discarded) workout sessions",
	})
	counterSetsLogged := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sets_logged",
		Help:      "The total number of logged sets",
	})
	counterBlocksSkipped := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "blocks_skipped",
		Help:      "The total number of skipped blocks",
	})
	counterPersistenceFailures := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persistence_failures",
		Help:      "The total number of dropped (best-effort) store writes",
	}, []string{"op"})
	counterBroadcastFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "live_status_broadcast_failures",
		Help:      "The total number of failed live status broadcasts",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugeActiveSession := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "active_session",
		Help:      "1 while a workout session is being tracked",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histWorkoutDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workout_duration_seconds",
		Help:      "Total duration of finished workouts in seconds",
		Buckets:   []float64{300, 600, 1200, 1800, 2700, 3600, 5400, 7200, 10800},
	})
	histBlockDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "block_duration_seconds",
		Help:      "Duration of completed (non skipped) blocks in seconds",
		Buckets:   []float64{30, 60, 120, 300, 600, 900, 1200, 1800},
	})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterWorkoutsStarted:     counterWorkoutsStarted,
		CounterWorkoutsFinished:    counterWorkoutsFinished,
		CounterWorkoutsDismissed:   counterWorkoutsDismissed,
		CounterSetsLogged:          counterSetsLogged,
		CounterBlocksSkipped:       counterBlocksSkipped,
		CounterPersistenceFailures: counterPersistenceFailures,
		CounterBroadcastFailures:   counterBroadcastFailures,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		GaugeActiveSession:         gaugeActiveSession,
		HistogramRequestDuration:   histogramRequestDuration,
		HistWorkoutDuration:        histWorkoutDuration,
		HistBlockDuration:          histBlockDuration,
	}
}
