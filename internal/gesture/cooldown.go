package gesture

import "time"

// Cooldown suppresses re-firing of a gesture within a fixed window.
type Cooldown struct {
	window time.Duration
	last   time.Time
}

// NewCooldown creates a Cooldown with the given window. A zero window never blocks.
func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{window: window}
}

// Ready reports whether the gesture may fire at now.
func (c *Cooldown) Ready(now time.Time) bool {
	if c.window <= 0 || c.last.IsZero() {
		return true
	}
	return now.Sub(c.last) >= c.window
}

// Fire records now as the last firing time.
func (c *Cooldown) Fire(now time.Time) {
	c.last = now
}

// Reset forgets the last firing time.
func (c *Cooldown) Reset() {
	c.last = time.Time{}
}

// Window returns the cooldown window.
func (c *Cooldown) Window() time.Duration {
	return c.window
}
