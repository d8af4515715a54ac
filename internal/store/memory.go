package store

import (
	"context"
	"sync"

	"classattend/internal/attendance"
	"classattend/internal/roster"
)

// Memory is a mutex-guarded in-memory store for dev and tests. The
// duplicate check and the insert run under one lock, which gives the
// compare-and-append contract directly.
type Memory struct {
	mu       sync.Mutex
	students map[string]roster.Student
	order    []string
	byKey    map[recordKey]struct{}
	records  []attendance.Record
}

type recordKey struct {
	date    string
	subject string
	roll    string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		students: make(map[string]roster.Student),
		byKey:    make(map[recordKey]struct{}),
	}
}

// SeedStudents loads the roster if the store holds no students yet.
func (m *Memory) SeedStudents(ctx context.Context, students []roster.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.students) > 0 {
		return nil
	}
	for _, s := range students {
		m.students[s.RollNumber] = s
		m.order = append(m.order, s.RollNumber)
	}
	return nil
}

// Students returns the roster in seed order.
func (m *Memory) Students(ctx context.Context) ([]roster.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]roster.Student, 0, len(m.order))
	for _, roll := range m.order {
		out = append(out, m.students[roll])
	}
	return out, nil
}

// Student returns one roster entry, or nil when the roll number is unknown.
func (m *Memory) Student(ctx context.Context, rollNumber string) (*roster.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[rollNumber]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// RecordForStudent returns the record for the triple, or nil.
func (m *Memory) RecordForStudent(ctx context.Context, date, subject, rollNumber string) (*attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byKey[recordKey{date, subject, rollNumber}]; !ok {
		return nil, nil
	}
	for i := range m.records {
		r := m.records[i]
		if r.Date == date && r.Subject == subject && r.RollNumber == rollNumber {
			return &r, nil
		}
	}
	return nil, nil
}

// RecordsForDate groups one date's records by subject, append order kept.
func (m *Memory) RecordsForDate(ctx context.Context, date string) (map[string][]attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]attendance.Record)
	for _, r := range m.records {
		if r.Date == date {
			out[r.Subject] = append(out[r.Subject], r)
		}
	}
	return out, nil
}

// AppendRecord inserts the record unless the triple already exists.
func (m *Memory) AppendRecord(ctx context.Context, rec attendance.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := recordKey{rec.Date, rec.Subject, rec.RollNumber}
	if _, ok := m.byKey[key]; ok {
		return attendance.ErrDuplicate
	}
	m.byKey[key] = struct{}{}
	m.records = append(m.records, rec)
	return nil
}

// AllRecords returns every record in append order.
func (m *Memory) AllRecords(ctx context.Context) ([]attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]attendance.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}
