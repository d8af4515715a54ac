package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Subject is a class subject with its daily marking window.
// The window is half-open: marking opens at Start and closes at End.
type Subject struct {
	Name  string    `json:"name"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// TimeOfDay is a clock time within a day, date-independent.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseTimeOfDay parses "HH:MM" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// Seconds returns seconds since midnight.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60
}

// String formats as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// SecondsOfDay returns the seconds elapsed since midnight for now,
// in now's location.
func SecondsOfDay(now time.Time) int {
	return now.Hour()*3600 + now.Minute()*60 + now.Second()
}

// Table maps subject names to their windows. It is immutable after
// construction; handlers and services share a single instance.
type Table struct {
	subjects map[string]Subject
	order    []string
}

// New builds a table from subjects, preserving their order for listings.
func New(subjects []Subject) (*Table, error) {
	t := &Table{subjects: make(map[string]Subject, len(subjects))}
	for _, sub := range subjects {
		if sub.Name == "" {
			return nil, fmt.Errorf("subject with empty name")
		}
		if _, dup := t.subjects[sub.Name]; dup {
			return nil, fmt.Errorf("duplicate subject %q", sub.Name)
		}
		if sub.Start.Seconds() >= sub.End.Seconds() {
			return nil, fmt.Errorf("subject %q: window start %s not before end %s", sub.Name, sub.Start, sub.End)
		}
		t.subjects[sub.Name] = sub
		t.order = append(t.order, sub.Name)
	}
	return t, nil
}

// Default returns the stock five-subject school day.
func Default() *Table {
	t, err := New([]Subject{
		{Name: "Mathematics", Start: TimeOfDay{9, 0}, End: TimeOfDay{10, 0}},
		{Name: "Science", Start: TimeOfDay{10, 30}, End: TimeOfDay{11, 30}},
		{Name: "English", Start: TimeOfDay{12, 0}, End: TimeOfDay{13, 0}},
		{Name: "Social Studies", Start: TimeOfDay{14, 0}, End: TimeOfDay{15, 0}},
		{Name: "Hindi", Start: TimeOfDay{15, 30}, End: TimeOfDay{16, 30}},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Parse builds a table from a config string of the form
// "Mathematics=09:00-10:00,Science=10:30-11:30". An empty string yields
// the default table.
func Parse(spec string) (*Table, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Default(), nil
	}
	var subjects []Subject
	for _, entry := range strings.Split(spec, ",") {
		name, window, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid schedule entry %q", entry)
		}
		startStr, endStr, ok := strings.Cut(window, "-")
		if !ok {
			return nil, fmt.Errorf("invalid window %q for subject %q", window, name)
		}
		start, err := ParseTimeOfDay(startStr)
		if err != nil {
			return nil, err
		}
		end, err := ParseTimeOfDay(endStr)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, Subject{Name: strings.TrimSpace(name), Start: start, End: end})
	}
	return New(subjects)
}

// Lookup returns the subject by name.
func (t *Table) Lookup(name string) (Subject, bool) {
	sub, ok := t.subjects[name]
	return sub, ok
}

// Subjects returns all subjects in their configured order.
func (t *Table) Subjects() []Subject {
	out := make([]Subject, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.subjects[name])
	}
	return out
}

// Names returns subject names sorted alphabetically, for stable map-style
// listings.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.subjects))
	for name := range t.subjects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of configured subjects.
func (t *Table) Len() int {
	return len(t.subjects)
}
