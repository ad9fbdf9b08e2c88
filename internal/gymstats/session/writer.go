package session

import (
	"context"
	"sync"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

const (
	writerQueueSize = 512
	writeTimeout    = 10 * time.Second
)

type writeJob struct {
	op  string
	ctx context.Context
	fn  func(ctx context.Context) error
	// barrier is closed once every job queued before it has run
	barrier chan struct{}
}

// writer runs store writes and event publishing in order, off the controller lock.
// Failures are logged and counted, never retried.
type writer struct {
	jobs    chan writeJob
	done    chan struct{}
	metrics *metrics.Manager

	// closed guards jobs against sends after close
	mu     sync.RWMutex
	closed bool
}

func newWriter(metricsManager *metrics.Manager) *writer {
	w := &writer{
		jobs:    make(chan writeJob, writerQueueSize),
		done:    make(chan struct{}),
		metrics: metricsManager,
	}
	go w.run()
	return w
}

func (w *writer) run() {
	defer close(w.done)
	for job := range w.jobs {
		if job.barrier != nil {
			close(job.barrier)
			continue
		}
		w.exec(job)
	}
}

func (w *writer) exec(job writeJob) {
	ctx, cancel := context.WithTimeout(job.ctx, writeTimeout)
	defer cancel()

	if err := job.fn(ctx); err != nil {
		log.Errorf("session write %s: %s", job.op, err)
		w.metrics.CounterPersistenceFailures.WithLabelValues(job.op).Inc()
	}
}

// enqueue schedules fn. The context only carries values (trace, request info),
// its cancellation does not abort the write.
func (w *writer) enqueue(ctx context.Context, op string, fn func(ctx context.Context) error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		log.Warnf("session write %s dropped, writer closed", op)
		return
	}
	w.jobs <- writeJob{
		op:  op,
		ctx: context.WithoutCancel(ctx),
		fn:  fn,
	}
}

// flush waits for the jobs queued so far. It returns at once when the writer is closed.
func (w *writer) flush() {
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return
	}
	barrier := make(chan struct{})
	w.jobs <- writeJob{barrier: barrier}
	w.mu.RUnlock()
	<-barrier
}

// close runs the already queued jobs and stops the writer. Safe to call more than once.
func (w *writer) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	close(w.jobs)
	w.mu.Unlock()
	<-w.done
}
