package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nbaliev/campushub/internal/models"
	"github.com/nbaliev/campushub/internal/server/storage"
)

const studentColumns = `id, roll_id, first_name, last_name, email, password_hash, cnic,
	phone_number, date_of_birth, gender, address_street, address_city, address_state,
	address_zip, address_country, guardian_name, guardian_phone, guardian_relation,
	profile_picture, status, totp_secret, totp_enabled, created_at, updated_at`

// sortColumns whitelists what the listing API may sort by. Anything else
// falls back to created_at.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"first_name": "first_name",
	"last_name":  "last_name",
	"email":      "email",
	"status":     "status",
	"roll_id":    "roll_id",
}

// CreateStudent inserts a student, assigns the roll number and writes the
// course enrollments, all in one transaction.
func (s *Storage) CreateStudent(ctx context.Context, student *models.Student) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO students (id, roll_id, first_name, last_name, email, password_hash,
			cnic, phone_number, date_of_birth, gender, address_street, address_city,
			address_state, address_zip, address_country, guardian_name, guardian_phone,
			guardian_relation, profile_picture, status, totp_secret, totp_enabled,
			created_at, updated_at)
		VALUES (?, '', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		student.ID,
		student.FirstName,
		student.LastName,
		student.Email,
		student.PasswordHash,
		student.CNIC,
		student.PhoneNumber,
		student.DateOfBirth,
		student.Gender,
		student.Address.Street,
		student.Address.City,
		student.Address.State,
		student.Address.ZipCode,
		student.Address.Country,
		student.GuardianName,
		student.GuardianPhone,
		student.GuardianRelation,
		student.ProfilePicture,
		string(student.Status),
		student.TOTPSecret,
		student.TOTPEnabled,
		student.CreatedAt,
		student.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to insert student: %w", err)
	}

	// Roll numbers come from the implicit rowid so they stay monotonic
	// without a separate counter table.
	rollQuery := `UPDATE students SET roll_id = 'STU-' || printf('%05d', rowid) WHERE id = ?`
	if _, err := tx.ExecContext(ctx, rollQuery, student.ID); err != nil {
		return fmt.Errorf("failed to assign roll id: %w", err)
	}

	if err := replaceEnrollments(ctx, tx, student.ID, student.Enrollments); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	// Reflect the assigned roll id on the in-memory record.
	row := s.db.QueryRowContext(ctx, `SELECT roll_id FROM students WHERE id = ?`, student.ID)
	if err := row.Scan(&student.RollID); err != nil {
		return fmt.Errorf("failed to read roll id: %w", err)
	}
	return nil
}

func replaceEnrollments(ctx context.Context, tx *sql.Tx, studentID string, enrollments []models.Enrollment) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE student_id = ?`, studentID); err != nil {
		return fmt.Errorf("failed to clear enrollments: %w", err)
	}
	for _, e := range enrollments {
		enrolledAt := e.EnrolledAt
		if enrolledAt.IsZero() {
			enrolledAt = time.Now()
		}
		status := e.Status
		if status == "" {
			status = "Active"
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO enrollments (student_id, course_id, status, enrolled_at) VALUES (?, ?, ?, ?)`,
			studentID, e.CourseID, status, enrolledAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert enrollment: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (*models.Student, error) {
	st := &models.Student{}
	var dob sql.NullTime
	var status string

	err := row.Scan(
		&st.ID,
		&st.RollID,
		&st.FirstName,
		&st.LastName,
		&st.Email,
		&st.PasswordHash,
		&st.CNIC,
		&st.PhoneNumber,
		&dob,
		&st.Gender,
		&st.Address.Street,
		&st.Address.City,
		&st.Address.State,
		&st.Address.ZipCode,
		&st.Address.Country,
		&st.GuardianName,
		&st.GuardianPhone,
		&st.GuardianRelation,
		&st.ProfilePicture,
		&status,
		&st.TOTPSecret,
		&st.TOTPEnabled,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	st.Status = models.StudentStatus(status)
	if dob.Valid {
		st.DateOfBirth = &dob.Time
	}
	return st, nil
}

func (s *Storage) loadEnrollments(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	query := `
		SELECT e.course_id, c.name, e.status, e.enrolled_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.student_id = ?
		ORDER BY e.enrolled_at
	`
	rows, err := s.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.CourseID, &e.CourseName, &e.Status, &e.EnrolledAt); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// GetStudentByEmail retrieves a student by email.
func (s *Storage) GetStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE email = ?`
	st, err := scanStudent(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, err
	}
	if st.Enrollments, err = s.loadEnrollments(ctx, st.ID); err != nil {
		return nil, err
	}
	return st, nil
}

// GetStudentByID retrieves a student by ID.
func (s *Storage) GetStudentByID(ctx context.Context, studentID string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = ?`
	st, err := scanStudent(s.db.QueryRowContext(ctx, query, studentID))
	if err != nil {
		return nil, err
	}
	if st.Enrollments, err = s.loadEnrollments(ctx, st.ID); err != nil {
		return nil, err
	}
	return st, nil
}

// ListStudents returns one page of students and the total match count.
func (s *Storage) ListStudents(ctx context.Context, params storage.ListStudentsParams) ([]*models.Student, int, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 10
	}

	where := "1=1"
	var args []any

	if params.Status != "" {
		where += " AND status = ?"
		args = append(args, string(params.Status))
	}
	if params.Search != "" {
		where += ` AND (first_name LIKE ? COLLATE NOCASE
			OR last_name LIKE ? COLLATE NOCASE
			OR email LIKE ? COLLATE NOCASE
			OR cnic LIKE ?
			OR phone_number LIKE ?)`
		pattern := "%" + params.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM students WHERE ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	sortCol, ok := sortColumns[params.SortField]
	if !ok {
		sortCol = "created_at"
	}
	order := "DESC"
	if params.SortOrder == "asc" {
		order = "ASC"
	}

	query := `SELECT ` + studentColumns + ` FROM students WHERE ` + where +
		` ORDER BY ` + sortCol + ` ` + order + ` LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, st := range students {
		if st.Enrollments, err = s.loadEnrollments(ctx, st.ID); err != nil {
			return nil, 0, err
		}
	}
	return students, total, nil
}

// ListAllStudents returns every student, oldest first, for CSV export.
func (s *Storage) ListAllStudents(ctx context.Context) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, st := range students {
		if st.Enrollments, err = s.loadEnrollments(ctx, st.ID); err != nil {
			return nil, err
		}
	}
	return students, nil
}

// CountStudentsByStatus returns the dashboard breakdown.
func (s *Storage) CountStudentsByStatus(ctx context.Context) (map[models.StudentStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM students GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.StudentStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[models.StudentStatus(status)] = n
	}
	return counts, rows.Err()
}

// UpdateStudent rewrites the mutable fields and replaces enrollments.
func (s *Storage) UpdateStudent(ctx context.Context, student *models.Student) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		UPDATE students
		SET first_name = ?, last_name = ?, email = ?, phone_number = ?,
			date_of_birth = ?, gender = ?, address_street = ?, address_city = ?,
			address_state = ?, address_zip = ?, address_country = ?,
			guardian_name = ?, guardian_phone = ?, guardian_relation = ?,
			profile_picture = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := tx.ExecContext(ctx, query,
		student.FirstName,
		student.LastName,
		student.Email,
		student.PhoneNumber,
		student.DateOfBirth,
		student.Gender,
		student.Address.Street,
		student.Address.City,
		student.Address.State,
		student.Address.ZipCode,
		student.Address.Country,
		student.GuardianName,
		student.GuardianPhone,
		student.GuardianRelation,
		student.ProfilePicture,
		string(student.Status),
		time.Now(),
		student.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to update student: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrStudentNotFound
	}

	if err := replaceEnrollments(ctx, tx, student.ID, student.Enrollments); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// DeleteStudent removes the record; enrollments cascade.
func (s *Storage) DeleteStudent(ctx context.Context, studentID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, studentID)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrStudentNotFound
	}
	return nil
}
