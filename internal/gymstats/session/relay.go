package session

import (
	"context"
	"sync"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/liveactivity"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

const broadcastTimeout = 5 * time.Second

type relayOp int

const (
	relayStart relayOp = iota
	relayUpdate
	relayStop
	relayBarrier
)

type relayCmd struct {
	op      relayOp
	status  liveactivity.LiveStatus
	barrier chan struct{}
}

// relay feeds the live status broadcaster from its own goroutine. Consecutive
// updates collapse into the latest one, so a slow broadcaster never holds up a session.
type relay struct {
	broadcaster liveactivity.Broadcaster
	metrics     *metrics.Manager

	mu      sync.Mutex
	pending []relayCmd
	closed  bool

	signal chan struct{}
	done   chan struct{}
}

func newRelay(broadcaster liveactivity.Broadcaster, metricsManager *metrics.Manager) *relay {
	r := &relay{
		broadcaster: broadcaster,
		metrics:     metricsManager,
		signal:      make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *relay) push(cmd relayCmd) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		if cmd.barrier != nil {
			close(cmd.barrier)
		}
		return
	}
	if n := len(r.pending); cmd.op == relayUpdate && n > 0 && r.pending[n-1].op == relayUpdate {
		r.pending[n-1] = cmd
	} else {
		r.pending = append(r.pending, cmd)
	}
	r.mu.Unlock()

	select {
	case r.signal <- struct{}{}:
	default:
	}
}

func (r *relay) start(status liveactivity.LiveStatus) {
	r.push(relayCmd{op: relayStart, status: status})
}

func (r *relay) update(status liveactivity.LiveStatus) {
	r.push(relayCmd{op: relayUpdate, status: status})
}

func (r *relay) stop() {
	r.push(relayCmd{op: relayStop})
}

func (r *relay) flush() {
	barrier := make(chan struct{})
	r.push(relayCmd{op: relayBarrier, barrier: barrier})
	<-barrier
}

// close delivers the pending commands and stops the relay goroutine.
func (r *relay) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	select {
	case r.signal <- struct{}{}:
	default:
	}
	<-r.done
}

func (r *relay) run() {
	defer close(r.done)
	for range r.signal {
		r.mu.Lock()
		cmds := r.pending
		r.pending = nil
		closed := r.closed
		r.mu.Unlock()

		for _, cmd := range cmds {
			r.exec(cmd)
		}
		if closed {
			return
		}
	}
}

func (r *relay) exec(cmd relayCmd) {
	if cmd.op == relayBarrier {
		close(cmd.barrier)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
	defer cancel()

	var err error
	switch cmd.op {
	case relayStart:
		err = r.broadcaster.Start(ctx, cmd.status)
	case relayUpdate:
		err = r.broadcaster.Update(ctx, cmd.status)
	case relayStop:
		err = r.broadcaster.Stop(ctx)
	}
	if err != nil {
		// the session goes on without the live status
		log.Warnf("live status broadcast: %s", err)
		r.metrics.CounterBroadcastFailures.Inc()
	}
}
