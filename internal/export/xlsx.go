// Package export renders the attendance summary as a spreadsheet for
// admin download.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"classattend/internal/attendance"
)

const sheetName = "Attendance"

var header = []string{"Date", "Subject", "Roll Number", "Student Name", "Marked At"}

// Workbook builds an xlsx file with one row per attendance record,
// grouped the way the summary orders them, plus a totals row.
func Workbook(summary attendance.Summary) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	row := 1
	if err := writeRow(f, row, header); err != nil {
		return nil, err
	}
	for _, dg := range summary.Dates {
		for _, sg := range dg.Subjects {
			for _, rec := range sg.Records {
				row++
				cells := []string{
					rec.Date,
					rec.Subject,
					rec.RollNumber,
					rec.StudentName,
					rec.MarkedAt.Format("15:04:05"),
				}
				if err := writeRow(f, row, cells); err != nil {
					return nil, err
				}
			}
		}
	}

	row += 2
	totals := []string{
		fmt.Sprintf("Students: %d", summary.TotalStudents),
		fmt.Sprintf("Subjects: %d", summary.TotalSubjects),
		fmt.Sprintf("Entries: %d", summary.TotalEntries),
	}
	if err := writeRow(f, row, totals); err != nil {
		return nil, err
	}

	return f, nil
}

func writeRow(f *excelize.File, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheetName, cell, &cells)
}
