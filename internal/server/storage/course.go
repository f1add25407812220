package storage

import (
	"context"

	"github.com/nbaliev/campushub/internal/models"
)

// CourseStorage defines persistence for courses.
type CourseStorage interface {
	// CreateCourse inserts a new course.
	CreateCourse(ctx context.Context, course *models.Course) error

	// GetCourseByID retrieves a course (active or not).
	// Returns ErrCourseNotFound if absent.
	GetCourseByID(ctx context.Context, courseID string) (*models.Course, error)

	// GetCoursesByIDs retrieves the active courses among ids. Callers use
	// the length of the result to detect unknown course ids.
	GetCoursesByIDs(ctx context.Context, ids []string) ([]*models.Course, error)

	// ListActiveCourses returns every active course.
	ListActiveCourses(ctx context.Context) ([]*models.Course, error)

	// CountCourses returns the total number of courses.
	CountCourses(ctx context.Context) (int, error)

	// UpdateCourse rewrites the mutable course fields.
	UpdateCourse(ctx context.Context, course *models.Course) error

	// DeactivateCourse soft-deletes a course; enrollments keep pointing
	// at it for history.
	DeactivateCourse(ctx context.Context, courseID string) error
}
