package syncengine

import "sync"

// Control carries the pause and stop signals from the caller to the worker.
// It is the only state both sides mutate. A stop request always wakes a
// paused worker.
type Control struct {
	mu      sync.Mutex
	cond    *sync.Cond
	paused  bool
	stopped bool
}

// NewControl returns a Control in the running, not stopped, state.
func NewControl() *Control {
	c := &Control{}
	c.cond = sync.NewCond(&c.mu)

	return c
}

// Pause suspends the worker at its next file boundary.
func (c *Control) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.paused = true
}

// Resume releases a paused worker.
func (c *Control) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.paused = false
	c.cond.Broadcast()
}

// TogglePause flips the pause flag and returns the new value.
func (c *Control) TogglePause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.paused = !c.paused
	if !c.paused {
		c.cond.Broadcast()
	}

	return c.paused
}

// Stop requests termination. It is idempotent.
func (c *Control) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	c.cond.Broadcast()
}

// Paused reports the pause flag.
func (c *Control) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.paused
}

// StopRequested reports the stop flag.
func (c *Control) StopRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stopped
}

// WaitWhilePaused blocks while paused and returns true if a stop was
// requested. The stop flag is checked before the pause flag on every wake.
func (c *Control) WaitWhilePaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		if c.stopped {
			return true
		}

		if !c.paused {
			return false
		}

		c.cond.Wait()
	}
}
