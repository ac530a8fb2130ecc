// Package clock provides time utilities for the application
package clock

import "time"

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/KirkDiggler/egg-brawl/internal/pkg/clock Clock

// Clock provides time functionality
type Clock interface {
	Now() time.Time

	// After waits for the duration to elapse and then sends the current time
	After(d time.Duration) <-chan time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// After delegates to time.After
func (c *Real) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}
