package storage

import (
	"context"

	"github.com/nbaliev/campushub/internal/models"
)

// ListStudentsParams controls pagination, search, sorting and filtering of
// the student listing. Zero values fall back to sane defaults in the
// implementation (page 1, limit 10, sort by created_at descending).
type ListStudentsParams struct {
	Page      int
	Limit     int
	Search    string // matches name, email, cnic, phone (case-insensitive)
	SortField string // whitelisted column name
	SortOrder string // "asc" or "desc"
	Status    models.StudentStatus
}

// StudentStorage defines persistence for student records.
type StudentStorage interface {
	// CreateStudent inserts a student and its course enrollments.
	// Returns ErrStudentAlreadyExists on duplicate email or CNIC.
	CreateStudent(ctx context.Context, student *models.Student) error

	// GetStudentByEmail retrieves a student by (lowercased) email.
	GetStudentByEmail(ctx context.Context, email string) (*models.Student, error)

	// GetStudentByID retrieves a student with enrollments populated.
	GetStudentByID(ctx context.Context, studentID string) (*models.Student, error)

	// ListStudents returns one page of students plus the total record
	// count for the query.
	ListStudents(ctx context.Context, params ListStudentsParams) ([]*models.Student, int, error)

	// ListAllStudents returns every student with enrollments, for export.
	ListAllStudents(ctx context.Context) ([]*models.Student, error)

	// CountStudentsByStatus returns the dashboard status breakdown.
	CountStudentsByStatus(ctx context.Context) (map[models.StudentStatus]int, error)

	// UpdateStudent rewrites the mutable fields and replaces enrollments.
	UpdateStudent(ctx context.Context, student *models.Student) error

	// DeleteStudent removes the record and its enrollments.
	DeleteStudent(ctx context.Context, studentID string) error
}
