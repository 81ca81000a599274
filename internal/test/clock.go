package test

import (
	"time"

	"github.com/mkraev/loanledger/internal/pkg/clock"
)

// ClockStub returns a fixed instant, optionally advanced by tests.
type ClockStub struct {
	Instant time.Time
}

// NewClockStub constructs a stub clock at the default instant.
func NewClockStub() *ClockStub {
	return &ClockStub{}
}

// Now returns the configured instant.
func (c *ClockStub) Now() time.Time {
	if c.Instant.IsZero() {
		return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	}
	return c.Instant
}

// Advance shifts the stub clock forward.
func (c *ClockStub) Advance(d time.Duration) {
	c.Instant = c.Now().Add(d)
}

var _ clock.Clock = (*ClockStub)(nil)
