package attendance

import "sort"

// SubjectGroup collects one subject's records for one date, in the order
// they were appended.
type SubjectGroup struct {
	Subject string   `json:"subject"`
	Count   int      `json:"count"`
	Records []Record `json:"records"`
}

// DateGroup collects one date's subject groups. Subjects appear in the
// order their first record was appended that day.
type DateGroup struct {
	Date     string         `json:"date"`
	Subjects []SubjectGroup `json:"subjects"`
}

// Summary is the admin report over the whole attendance store.
type Summary struct {
	TotalStudents int         `json:"total_students"`
	TotalSubjects int         `json:"total_subjects"`
	TotalEntries  int         `json:"total_entries"`
	Dates         []DateGroup `json:"dates"`
}

// SortedDates lists the distinct dates with at least one record, ascending.
func (s Summary) SortedDates() []string {
	out := make([]string, 0, len(s.Dates))
	for _, dg := range s.Dates {
		out = append(out, dg.Date)
	}
	return out
}

// Summarize folds records into per-date, per-subject groups. It never
// mutates its input; dates come out ascending and records keep their
// input order within each group.
func Summarize(records []Record, totalStudents, totalSubjects int) Summary {
	byDate := make(map[string]*DateGroup)
	subjectIdx := make(map[string]map[string]int)
	var dates []string

	for _, rec := range records {
		dg, ok := byDate[rec.Date]
		if !ok {
			dg = &DateGroup{Date: rec.Date}
			byDate[rec.Date] = dg
			subjectIdx[rec.Date] = make(map[string]int)
			dates = append(dates, rec.Date)
		}
		idx, ok := subjectIdx[rec.Date][rec.Subject]
		if !ok {
			idx = len(dg.Subjects)
			subjectIdx[rec.Date][rec.Subject] = idx
			dg.Subjects = append(dg.Subjects, SubjectGroup{Subject: rec.Subject})
		}
		dg.Subjects[idx].Records = append(dg.Subjects[idx].Records, rec)
		dg.Subjects[idx].Count++
	}

	sort.Strings(dates)
	out := Summary{
		TotalStudents: totalStudents,
		TotalSubjects: totalSubjects,
		TotalEntries:  len(records),
		Dates:         make([]DateGroup, 0, len(dates)),
	}
	for _, d := range dates {
		out.Dates = append(out.Dates, *byDate[d])
	}
	return out
}
