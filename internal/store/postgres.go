package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"classattend/internal/attendance"
	"classattend/internal/roster"
)

// Postgres persists the roster and attendance records. The unique index
// on (date, subject, roll_number) plus ON CONFLICT DO NOTHING gives the
// compare-and-append contract: concurrent inserts for one triple admit
// exactly one row.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open connection.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the tables and indexes when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS students (
			roll_number TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			password TEXT NOT NULL,
			class TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_records (
			id UUID PRIMARY KEY,
			roll_number TEXT NOT NULL,
			student_name TEXT NOT NULL,
			subject TEXT NOT NULL,
			date TEXT NOT NULL,
			marked_at TIMESTAMPTZ NOT NULL,
			seq BIGSERIAL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS attendance_records_triple
			ON attendance_records (date, subject, roll_number)`,
	}
	for _, stmt := range stmts {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SeedStudents loads the roster only when the students table is empty.
func (p *Postgres) SeedStudents(ctx context.Context, students []roster.Student) error {
	var count int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, s := range students {
		_, err := p.db.ExecContext(ctx, `
			INSERT INTO students (roll_number, name, password, class)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (roll_number) DO NOTHING
		`, s.RollNumber, s.Name, s.Password, s.Class)
		if err != nil {
			return err
		}
	}
	return nil
}

// Students returns the full roster ordered by roll number.
func (p *Postgres) Students(ctx context.Context) ([]roster.Student, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT roll_number, name, password, class FROM students
		ORDER BY created_at, roll_number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []roster.Student
	for rows.Next() {
		var s roster.Student
		if err := rows.Scan(&s.RollNumber, &s.Name, &s.Password, &s.Class); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Student returns a single roster entry, nil when unknown.
func (p *Postgres) Student(ctx context.Context, rollNumber string) (*roster.Student, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT roll_number, name, password, class FROM students WHERE roll_number = $1
	`, rollNumber)
	var s roster.Student
	if err := row.Scan(&s.RollNumber, &s.Name, &s.Password, &s.Class); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// RecordForStudent returns the record for the triple, nil when absent.
func (p *Postgres) RecordForStudent(ctx context.Context, date, subject, rollNumber string) (*attendance.Record, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, roll_number, student_name, subject, date, marked_at
		FROM attendance_records
		WHERE date = $1 AND subject = $2 AND roll_number = $3
	`, date, subject, rollNumber)
	var rec attendance.Record
	if err := row.Scan(&rec.ID, &rec.RollNumber, &rec.StudentName, &rec.Subject, &rec.Date, &rec.MarkedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// RecordsForDate groups one date's records by subject in append order.
func (p *Postgres) RecordsForDate(ctx context.Context, date string) (map[string][]attendance.Record, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, roll_number, student_name, subject, date, marked_at
		FROM attendance_records
		WHERE date = $1
		ORDER BY seq
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]attendance.Record)
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(&rec.ID, &rec.RollNumber, &rec.StudentName, &rec.Subject, &rec.Date, &rec.MarkedAt); err != nil {
			return nil, err
		}
		out[rec.Subject] = append(out[rec.Subject], rec)
	}
	return out, rows.Err()
}

// AppendRecord inserts the record; an existing triple yields
// attendance.ErrDuplicate and writes nothing.
func (p *Postgres) AppendRecord(ctx context.Context, rec attendance.Record) error {
	res, err := p.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, roll_number, student_name, subject, date, marked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date, subject, roll_number) DO NOTHING
	`, rec.ID, rec.RollNumber, rec.StudentName, rec.Subject, rec.Date, rec.MarkedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return attendance.ErrDuplicate
	}
	return nil
}

// AllRecords returns every record in append order.
func (p *Postgres) AllRecords(ctx context.Context) ([]attendance.Record, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, roll_number, student_name, subject, date, marked_at
		FROM attendance_records
		ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(&rec.ID, &rec.RollNumber, &rec.StudentName, &rec.Subject, &rec.Date, &rec.MarkedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
