package clock

import "time"

// Clock supplies the current time. Injected everywhere a timestamp or
// due-date comparison is made so that time is controllable in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// New returns the wall clock.
func New() Clock { return systemClock{} }
