package store

import (
	"context"

	"classattend/internal/attendance"
	"classattend/internal/roster"
)

// Store persists the roster and the attendance records. AppendRecord is a
// compare-and-append: it writes the record only if no record exists for
// the same (date, subject, roll number) triple, and otherwise returns
// attendance.ErrDuplicate. Implementations must make that check-and-insert
// atomic, so concurrent appends for one triple admit exactly one record.
type Store interface {
	Students(ctx context.Context) ([]roster.Student, error)
	Student(ctx context.Context, rollNumber string) (*roster.Student, error)
	SeedStudents(ctx context.Context, students []roster.Student) error

	RecordForStudent(ctx context.Context, date, subject, rollNumber string) (*attendance.Record, error)
	RecordsForDate(ctx context.Context, date string) (map[string][]attendance.Record, error)
	AppendRecord(ctx context.Context, rec attendance.Record) error
	AllRecords(ctx context.Context) ([]attendance.Record, error)
}
