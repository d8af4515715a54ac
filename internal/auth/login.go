package auth

import (
	"context"
	"errors"

	"classattend/internal/roster"
)

// ErrInvalidCredentials rejects a login without saying which half failed.
var ErrInvalidCredentials = errors.New("invalid roll number or password")

// StudentSource looks up roster entries for credential checks.
type StudentSource interface {
	Student(ctx context.Context, rollNumber string) (*roster.Student, error)
}

// Login checks a student's credentials against the roster. The roster
// seed stores passwords in plaintext, so this is a direct comparison;
// swap in a hash check when a real identity source replaces the seed.
func Login(ctx context.Context, src StudentSource, rollNumber, password string) (*roster.Student, error) {
	student, err := src.Student(ctx, rollNumber)
	if err != nil {
		return nil, err
	}
	if student == nil || student.Password != password {
		return nil, ErrInvalidCredentials
	}
	return student, nil
}
