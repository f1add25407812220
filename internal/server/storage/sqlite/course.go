package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nbaliev/campushub/internal/models"
	"github.com/nbaliev/campushub/internal/server/storage"
)

const courseColumns = `id, name, days, timing, duration, price, mode_of_delivery,
	created_by, is_active, created_at, updated_at`

// CreateCourse inserts a new course.
func (s *Storage) CreateCourse(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (id, name, days, timing, duration, price,
			mode_of_delivery, created_by, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		course.ID,
		course.Name,
		course.Days,
		course.Timing,
		course.Duration,
		course.Price,
		course.ModeOfDelivery,
		course.CreatedBy,
		course.IsActive,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

func scanCourse(row rowScanner) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Days,
		&c.Timing,
		&c.Duration,
		&c.Price,
		&c.ModeOfDelivery,
		&c.CreatedBy,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	return c, nil
}

// GetCourseByID retrieves a course regardless of its active flag.
func (s *Storage) GetCourseByID(ctx context.Context, courseID string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ?`
	return scanCourse(s.db.QueryRowContext(ctx, query, courseID))
}

// GetCoursesByIDs retrieves the active courses among ids.
func (s *Storage) GetCoursesByIDs(ctx context.Context, ids []string) ([]*models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `SELECT ` + courseColumns + ` FROM courses WHERE is_active = 1 AND id IN (` + placeholders + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// ListActiveCourses returns every active course, newest first.
func (s *Storage) ListActiveCourses(ctx context.Context) ([]*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE is_active = 1 ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// CountCourses returns the total course count.
func (s *Storage) CountCourses(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return n, nil
}

// UpdateCourse rewrites the mutable course fields.
func (s *Storage) UpdateCourse(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET name = ?, days = ?, timing = ?, duration = ?, price = ?,
			mode_of_delivery = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		course.Name,
		course.Days,
		course.Timing,
		course.Duration,
		course.Price,
		course.ModeOfDelivery,
		course.IsActive,
		time.Now(),
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrCourseNotFound
	}
	return nil
}

// DeactivateCourse soft-deletes a course.
func (s *Storage) DeactivateCourse(ctx context.Context, courseID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE courses SET is_active = 0, updated_at = ? WHERE id = ?`, time.Now(), courseID)
	if err != nil {
		return fmt.Errorf("failed to deactivate course: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrCourseNotFound
	}
	return nil
}
