package session

import (
	"context"
	"time"
)

// startTicking (re)starts the per block tick. Ticks of a replaced loop are dropped.
func (c *Controller) startTicking() {
	c.stopTicking()

	c.tickGen++
	stop := make(chan struct{})
	c.tickStop = stop

	c.wg.Add(1)
	go c.tickLoop(c.tickGen, stop)
}

// stopTicking is idempotent.
func (c *Controller) stopTicking() {
	if c.tickStop == nil {
		return
	}
	close(c.tickStop)
	c.tickStop = nil
}

func (c *Controller) tickLoop(gen int, stop <-chan struct{}) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.tick(gen)
		}
	}
}

func (c *Controller) tick(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.tickGen || c.tickStop == nil {
		return
	}
	c.onTick(context.Background())
}

// onTick counts the elapsed block time and runs the rest countdown.
func (c *Controller) onTick(ctx context.Context) {
	switch c.status {
	case StatusActive:
		c.elapsed++
		c.relay.update(c.liveStatus())
	case StatusResting:
		c.elapsed++
		c.restRemaining--
		if c.restRemaining <= 0 {
			c.updateCurrentBlock(ctx, c.blockIndex+1)
		} else {
			c.relay.update(c.liveStatus())
		}
	default:
		return
	}
	c.publishState()
}
