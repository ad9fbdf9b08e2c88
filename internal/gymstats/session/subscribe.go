package session

// Subscribe returns a channel receiving a State after every change. Slow receivers
// only get the latest state. The channel is closed by cancel or by Close.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch
	ch <- c.snapshot()

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subscribers[id]; ok {
			delete(c.subscribers, id)
			close(sub)
		}
	}
}

func (c *Controller) publishState() {
	if len(c.subscribers) == 0 {
		return
	}
	state := c.snapshot()
	for _, ch := range c.subscribers {
		select {
		case ch <- state:
			continue
		default:
		}
		// drop the stale state
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}
