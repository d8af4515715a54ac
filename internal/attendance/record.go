package attendance

import "time"

// DateLayout is the wire and storage format for attendance dates.
const DateLayout = "2006-01-02"

// Record is one student's attendance mark for one subject on one date.
// Records are append-only; they are never mutated or deleted.
type Record struct {
	ID          string    `json:"id"`
	RollNumber  string    `json:"roll_number"`
	StudentName string    `json:"student_name"`
	Subject     string    `json:"subject"`
	Date        string    `json:"date"`
	MarkedAt    time.Time `json:"marked_at"`
}

// Confirmation is returned to the student after a successful mark.
type Confirmation struct {
	Subject     string    `json:"subject"`
	StudentName string    `json:"student_name"`
	MarkedAt    time.Time `json:"marked_at"`
}
