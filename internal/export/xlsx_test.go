package export

import (
	"testing"
	"time"

	"classattend/internal/attendance"
)

func TestWorkbookRows(t *testing.T) {
	records := []attendance.Record{
		{ID: "a", RollNumber: "1", StudentName: "Student 01", Subject: "Math", Date: "2024-01-10", MarkedAt: time.Date(2024, 1, 10, 9, 15, 0, 0, time.UTC)},
		{ID: "b", RollNumber: "2", StudentName: "Student 02", Subject: "Math", Date: "2024-01-10", MarkedAt: time.Date(2024, 1, 10, 9, 20, 0, 0, time.UTC)},
		{ID: "c", RollNumber: "1", StudentName: "Student 01", Subject: "Science", Date: "2024-01-11", MarkedAt: time.Date(2024, 1, 11, 10, 45, 0, 0, time.UTC)},
	}
	summary := attendance.Summarize(records, 40, 5)

	wb, err := Workbook(summary)
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows(sheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	// Header + 3 records + blank + totals.
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want 6", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][4] != "Marked At" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][1] != "Math" || rows[1][2] != "1" || rows[1][4] != "09:15:00" {
		t.Fatalf("first record row = %v", rows[1])
	}
	if rows[3][1] != "Science" || rows[3][0] != "2024-01-11" {
		t.Fatalf("third record row = %v", rows[3])
	}
	if rows[5][2] != "Entries: 3" {
		t.Fatalf("totals row = %v", rows[5])
	}
}

func TestWorkbookEmptySummary(t *testing.T) {
	wb, err := Workbook(attendance.Summarize(nil, 40, 5))
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows(sheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + blank + totals", len(rows))
	}
	if rows[2][0] != "Students: 40" {
		t.Fatalf("totals row = %v", rows[2])
	}
}
