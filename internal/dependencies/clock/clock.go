package clock

import "time"

// Clock provides the wall-clock time source for registration timestamps
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time, truncated to seconds for stable documents
func (c *RealClock) Now() time.Time {
	return time.Now().Truncate(time.Second)
}
