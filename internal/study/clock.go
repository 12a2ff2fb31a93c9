package study

import "time"

// Clock abstracts time so the timer can be driven in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. The returned times carry Go's monotonic
// reading, so elapsed spans are immune to wall clock adjustments.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
