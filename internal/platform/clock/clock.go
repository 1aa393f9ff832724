package clock

import "time"

// Clock provides times.
type Clock interface {
	// Now returns current UTC time.
	Now() time.Time
}

// System is Clock backed by system time.
type System struct{}

// Now returns current UTC time truncated to microseconds, the precision of Postgres timestamps.
func (System) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Fixed is Clock always returning the same time.
type Fixed time.Time

// Now returns fixed time.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
