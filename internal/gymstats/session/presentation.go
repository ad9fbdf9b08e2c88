package session

import (
	"time"
)

// MinimizeWorkout leaves the full view right away and switches to the minimized view
// once the transition delay has passed.
func (c *Controller) MinimizeWorkout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.status.IsTracking() {
		return
	}
	c.fullView = false
	c.scheduleTransition(func() {
		c.minimized = true
	})
	c.publishState()
}

// PauseWorkout only changes the presentation, the session keeps ticking.
func (c *Controller) PauseWorkout() {
	c.MinimizeWorkout()
}

// ResumeWorkout leaves the minimized view right away and brings back the full view
// once the transition delay has passed.
func (c *Controller) ResumeWorkout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.status.IsTracking() {
		return
	}
	c.minimized = false
	c.scheduleTransition(func() {
		c.fullView = true
	})
	c.publishState()
}

// scheduleTransition runs step (under the controller lock) after the transition delay,
// unless another transition replaces it or the session ends first.
func (c *Controller) scheduleTransition(step func()) {
	c.cancelTransition()

	stop := make(chan struct{})
	c.transitionStop = stop

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		timer := time.NewTimer(c.transitionDelay)
		defer timer.Stop()

		select {
		case <-stop:
			return
		case <-timer.C:
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		select {
		case <-stop:
			return
		default:
		}
		c.transitionStop = nil
		step()
		c.publishState()
	}()
}

func (c *Controller) cancelTransition() {
	if c.transitionStop == nil {
		return
	}
	close(c.transitionStop)
	c.transitionStop = nil
}
