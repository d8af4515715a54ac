package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"classattend/internal/schedule"
)

// Store is the persistence surface the workflow needs. AppendRecord must
// be atomic with respect to the duplicate check: when the (date, subject,
// roll number) triple already holds a record it returns ErrDuplicate and
// writes nothing.
type Store interface {
	RecordForStudent(ctx context.Context, date, subject, rollNumber string) (*Record, error)
	RecordsForDate(ctx context.Context, date string) (map[string][]Record, error)
	AppendRecord(ctx context.Context, rec Record) error
}

// SubjectState is one row of the eligibility view.
type SubjectState struct {
	Subject string             `json:"subject"`
	Start   schedule.TimeOfDay `json:"start"`
	End     schedule.TimeOfDay `json:"end"`
	Status  Status             `json:"status"`
}

// Service runs the eligibility checks and the confirmation workflow
// against the live store state.
type Service struct {
	table   *schedule.Table
	store   Store
	clock   func() time.Time
	openAll bool
}

// NewService wires the schedule table, store and clock. A nil clock means
// wall time.
func NewService(table *schedule.Table, store Store, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{table: table, store: store, clock: clock}
}

// SetOpenAll bypasses window checks, for local testing against a live
// clock. Already-marked rejection still applies.
func (s *Service) SetOpenAll(open bool) {
	s.openAll = open
}

// Today returns the current date in storage format.
func (s *Service) Today() string {
	return s.clock().Format(DateLayout)
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock()
}

// Overview computes the per-subject eligibility view for a student, in
// schedule order.
func (s *Service) Overview(ctx context.Context, rollNumber string) ([]SubjectState, error) {
	now := s.clock()
	today := now.Format(DateLayout)
	out := make([]SubjectState, 0, s.table.Len())
	for _, sub := range s.table.Subjects() {
		existing, err := s.store.RecordForStudent(ctx, today, sub.Name, rollNumber)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		status := Evaluate(sub, now, existing != nil)
		if s.openAll && status != StatusMarked {
			status = StatusOpen
		}
		out = append(out, SubjectState{Subject: sub.Name, Start: sub.Start, End: sub.End, Status: status})
	}
	return out, nil
}

// Marked reports, per subject, whether the student holds a record today.
func (s *Service) Marked(ctx context.Context, rollNumber string) (map[string]bool, error) {
	today := s.Today()
	out := make(map[string]bool, s.table.Len())
	for _, sub := range s.table.Subjects() {
		existing, err := s.store.RecordForStudent(ctx, today, sub.Name, rollNumber)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		out[sub.Name] = existing != nil
	}
	return out, nil
}

// Mark re-validates eligibility against live state and appends exactly one
// record. Concurrent calls for the same triple resolve through the store's
// compare-and-append: one succeeds, the rest see ErrAlreadyMarked.
func (s *Service) Mark(ctx context.Context, rollNumber, studentName, subjectName string) (Confirmation, error) {
	sub, ok := s.table.Lookup(subjectName)
	if !ok {
		return Confirmation{}, ErrSubjectUnknown
	}

	now := s.clock()
	today := now.Format(DateLayout)

	existing, err := s.store.RecordForStudent(ctx, today, sub.Name, rollNumber)
	if err != nil {
		return Confirmation{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	status := Evaluate(sub, now, existing != nil)
	if s.openAll && status != StatusMarked {
		status = StatusOpen
	}
	switch status {
	case StatusMarked:
		return Confirmation{}, ErrAlreadyMarked
	case StatusNotOpen:
		return Confirmation{}, ErrNotOpenYet
	case StatusClosed:
		return Confirmation{}, ErrWindowClosed
	}

	rec := Record{
		ID:          uuid.NewString(),
		RollNumber:  rollNumber,
		StudentName: studentName,
		Subject:     sub.Name,
		Date:        today,
		MarkedAt:    now,
	}
	if err := s.store.AppendRecord(ctx, rec); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return Confirmation{}, ErrAlreadyMarked
		}
		return Confirmation{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return Confirmation{Subject: sub.Name, StudentName: studentName, MarkedAt: now}, nil
}
