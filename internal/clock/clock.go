// Package clock abstracts wall-clock time so the contact book's date stamp
// and insertion timestamps can be pinned in tests.
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// System is the real wall clock in local time.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time {
	return time.Now()
}

// Func adapts a plain function to Clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time {
	return f()
}

// Started captures the process start time once. The contact book file name
// and every backup name derive from it, so it is never re-read per
// operation.
type Started struct {
	at time.Time
}

// Capture reads c once and freezes the result.
func Capture(c Clock) Started {
	return Started{at: c.Now()}
}

// At returns the frozen start time.
func (s Started) At() time.Time {
	return s.at
}

// Stamp formats the start time with layout.
func (s Started) Stamp(layout string) string {
	return s.at.Format(layout)
}
