package attendance

import "errors"

// Rejection reasons surfaced by the confirmation workflow. Callers match
// with errors.Is and translate to user-facing messages.
var (
	ErrSubjectUnknown     = errors.New("subject is not on the schedule")
	ErrNotOpenYet         = errors.New("attendance window has not opened yet")
	ErrWindowClosed       = errors.New("attendance window has closed")
	ErrAlreadyMarked      = errors.New("attendance already marked today")
	ErrStorageUnavailable = errors.New("attendance storage unavailable")
)

// ErrDuplicate is the compare-and-append contract error: stores return it
// from AppendRecord when a record for the same (date, subject, roll
// number) triple already exists. The workflow translates it to
// ErrAlreadyMarked.
var ErrDuplicate = errors.New("record already exists for date, subject and student")

