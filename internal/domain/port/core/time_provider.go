package core

import "time"

// TimeProvider abstracts clock access so date-sensitive store logic
// (reminder settlement dates, current-month budget windows) stays testable.
type TimeProvider interface {
	// Now returns the current time
	Now() time.Time
	// Today returns the current calendar date in ISO form (YYYY-MM-DD)
	Today() string
	// CurrentMonth returns the current calendar month in YYYY-MM form
	CurrentMonth() string
}
