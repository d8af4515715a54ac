package attendance

import (
	"time"

	"classattend/internal/schedule"
)

// Status is a student's eligibility for one subject at one instant.
type Status string

const (
	StatusNotOpen Status = "not_open"
	StatusOpen    Status = "open"
	StatusMarked  Status = "marked"
	StatusClosed  Status = "closed"
)

// Evaluate computes eligibility for a single subject. It is a pure
// function of the subject's window, the current time-of-day, and whether
// the student already holds a record for this subject today.
//
// An existing mark wins over everything else; otherwise the half-open
// window [start, end) decides. Subjects are evaluated independently,
// so overlapping windows are each reported on their own terms.
func Evaluate(sub schedule.Subject, now time.Time, alreadyMarked bool) Status {
	if alreadyMarked {
		return StatusMarked
	}
	sec := schedule.SecondsOfDay(now)
	switch {
	case sec < sub.Start.Seconds():
		return StatusNotOpen
	case sec >= sub.End.Seconds():
		return StatusClosed
	default:
		return StatusOpen
	}
}
