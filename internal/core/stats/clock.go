package stats

import "time"

// Clock provides the current time for day-based statistics.
// This interface allows time to be mocked in tests.
type Clock interface {
	Now() time.Time
}

// RealClock provides actual system time.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock provides a fixed time for testing.
type FixedClock struct {
	CurrentTime time.Time
}

// Now returns the fixed time.
func (clock *FixedClock) Now() time.Time {
	return clock.CurrentTime
}
