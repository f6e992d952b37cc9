package services

import "time"

// Clock abstracts time so the scheduler and lifecycle services can be
// driven by a fake clock in tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current UTC time.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Timestamp formats a time the way records store it: RFC3339 UTC, which
// sorts lexicographically.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
