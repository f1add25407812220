package storage

import "errors"

// Common storage errors. Handlers map these onto stable HTTP statuses.
var (
	// ErrUserNotFound indicates the staff account does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a duplicate email or CNIC among staff.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrStudentNotFound indicates the student record does not exist.
	ErrStudentNotFound = errors.New("student not found")

	// ErrStudentAlreadyExists indicates a duplicate email or CNIC among students.
	ErrStudentAlreadyExists = errors.New("student already exists")

	// ErrCourseNotFound indicates the course does not exist or is inactive.
	ErrCourseNotFound = errors.New("course not found")
)
