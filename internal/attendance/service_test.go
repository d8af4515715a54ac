package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"classattend/internal/schedule"
)

// memStore is a minimal in-process Store for workflow tests. The
// duplicate check and insert share one lock, matching the store contract.
type memStore struct {
	mu      sync.Mutex
	records []Record
}

func (m *memStore) RecordForStudent(ctx context.Context, date, subject, roll string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		r := m.records[i]
		if r.Date == date && r.Subject == subject && r.RollNumber == roll {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memStore) RecordsForDate(ctx context.Context, date string) (map[string][]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]Record)
	for _, r := range m.records {
		if r.Date == date {
			out[r.Subject] = append(out[r.Subject], r)
		}
	}
	return out, nil
}

func (m *memStore) AppendRecord(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Date == rec.Date && r.Subject == rec.Subject && r.RollNumber == rec.RollNumber {
			return ErrDuplicate
		}
	}
	m.records = append(m.records, rec)
	return nil
}

type failingStore struct {
	readErr   error
	appendErr error
}

func (f *failingStore) RecordForStudent(ctx context.Context, date, subject, roll string) (*Record, error) {
	return nil, f.readErr
}

func (f *failingStore) RecordsForDate(ctx context.Context, date string) (map[string][]Record, error) {
	return nil, f.readErr
}

func (f *failingStore) AppendRecord(ctx context.Context, rec Record) error {
	return f.appendErr
}

// Subject45 is the scenario window used throughout: Mathematics 09:00-09:45.
func Subject45() schedule.Subject {
	return schedule.Subject{
		Name:  "Mathematics",
		Start: schedule.TimeOfDay{Hour: 9, Minute: 0},
		End:   schedule.TimeOfDay{Hour: 9, Minute: 45},
	}
}

func fixedClock(tm time.Time) func() time.Time {
	return func() time.Time { return tm }
}

func TestMarkSuccessThenAlreadyMarked(t *testing.T) {
	st := &memStore{}
	table, err := schedule.New([]schedule.Subject{Subject45()})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	svc := NewService(table, st, fixedClock(at(9, 10, 0)))

	conf, err := svc.Mark(context.Background(), "1", "Student 01", "Mathematics")
	if err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if conf.Subject != "Mathematics" || conf.StudentName != "Student 01" {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}
	if !conf.MarkedAt.Equal(at(9, 10, 0)) {
		t.Fatalf("expected marked_at 09:10, got %v", conf.MarkedAt)
	}

	svc2 := NewService(table, st, fixedClock(at(9, 20, 0)))
	if _, err := svc2.Mark(context.Background(), "1", "Student 01", "Mathematics"); !errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("second mark: got %v, want ErrAlreadyMarked", err)
	}

	if len(st.records) != 1 {
		t.Fatalf("store holds %d records, want 1", len(st.records))
	}
}

func TestMarkRejections(t *testing.T) {
	table, err := schedule.New([]schedule.Subject{Subject45()})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	cases := []struct {
		name    string
		now     time.Time
		subject string
		want    error
	}{
		{"unknown subject", at(9, 10, 0), "Astronomy", ErrSubjectUnknown},
		{"before window", at(8, 59, 0), "Mathematics", ErrNotOpenYet},
		{"at window end", at(9, 45, 0), "Mathematics", ErrWindowClosed},
		{"after window", at(9, 50, 0), "Mathematics", ErrWindowClosed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(table, &memStore{}, fixedClock(tc.now))
			_, err := svc.Mark(context.Background(), "1", "Student 01", tc.subject)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestMarkConcurrentDuplicatesAdmitOne(t *testing.T) {
	st := &memStore{}
	table, err := schedule.New([]schedule.Subject{Subject45()})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	svc := NewService(table, st, fixedClock(at(9, 10, 0)))

	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Mark(context.Background(), "7", "Student 07", "Mathematics")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, duplicates int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrAlreadyMarked):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || duplicates != n-1 {
		t.Fatalf("got %d successes and %d duplicates, want 1 and %d", successes, duplicates, n-1)
	}
	if len(st.records) != 1 {
		t.Fatalf("store holds %d records, want 1", len(st.records))
	}
}

func TestMarkStorageFailures(t *testing.T) {
	table, err := schedule.New([]schedule.Subject{Subject45()})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	boom := errors.New("connection refused")

	svc := NewService(table, &failingStore{readErr: boom}, fixedClock(at(9, 10, 0)))
	if _, err := svc.Mark(context.Background(), "1", "Student 01", "Mathematics"); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("read failure: got %v, want ErrStorageUnavailable", err)
	}

	svc = NewService(table, &failingStore{appendErr: boom}, fixedClock(at(9, 10, 0)))
	if _, err := svc.Mark(context.Background(), "1", "Student 01", "Mathematics"); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("append failure: got %v, want ErrStorageUnavailable", err)
	}
}

func TestOverviewStates(t *testing.T) {
	st := &memStore{}
	table, err := schedule.New([]schedule.Subject{
		Subject45(),
		{Name: "Science", Start: schedule.TimeOfDay{Hour: 10, Minute: 30}, End: schedule.TimeOfDay{Hour: 11, Minute: 30}},
	})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	svc := NewService(table, st, fixedClock(at(9, 10, 0)))
	if _, err := svc.Mark(context.Background(), "1", "Student 01", "Mathematics"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	states, err := svc.Overview(context.Background(), "1")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("got %d states, want 2", len(states))
	}
	if states[0].Subject != "Mathematics" || states[0].Status != StatusMarked {
		t.Fatalf("Mathematics state = %+v, want marked", states[0])
	}
	if states[1].Subject != "Science" || states[1].Status != StatusNotOpen {
		t.Fatalf("Science state = %+v, want not_open", states[1])
	}

	// Another student is unaffected by the first student's mark.
	states, err = svc.Overview(context.Background(), "2")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if states[0].Status != StatusOpen {
		t.Fatalf("Mathematics for student 2 = %s, want open", states[0].Status)
	}
}

func TestOpenAllBypassKeepsAlreadyMarked(t *testing.T) {
	st := &memStore{}
	table, err := schedule.New([]schedule.Subject{Subject45()})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	svc := NewService(table, st, fixedClock(at(23, 0, 0)))
	svc.SetOpenAll(true)

	if _, err := svc.Mark(context.Background(), "1", "Student 01", "Mathematics"); err != nil {
		t.Fatalf("mark with bypass: %v", err)
	}
	if _, err := svc.Mark(context.Background(), "1", "Student 01", "Mathematics"); !errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("bypass must not defeat the one-mark rule, got %v", err)
	}
}
