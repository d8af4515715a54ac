// Package roster holds the fixed student roster. Passwords ship in
// plaintext in the default seed; replacing them with salted hashes is up
// to whoever integrates a real identity source.
package roster

import "fmt"

// Student is one roster entry. The roll number is the unique, stable
// identifier used everywhere else in the system.
type Student struct {
	RollNumber string `json:"roll_number"`
	Name       string `json:"name"`
	Password   string `json:"-"`
	Class      string `json:"class"`
}

// Seed returns the stock roster of 40 class-10 students, used to
// initialize an empty store.
func Seed() []Student {
	students := make([]Student, 0, 40)
	for i := 1; i <= 40; i++ {
		students = append(students, Student{
			RollNumber: fmt.Sprintf("%d", i),
			Name:       fmt.Sprintf("Student %02d", i),
			Password:   fmt.Sprintf("pass%02d", i),
			Class:      "10",
		})
	}
	return students
}
