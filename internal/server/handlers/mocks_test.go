package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nbaliev/campushub/internal/models"
	"github.com/nbaliev/campushub/internal/server/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserStorage is an in-memory UserStorage keyed by email.
type mockUserStorage struct {
	users       map[string]*models.User
	createError error
	getError    error
	lastLogins  map[string]time.Time
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{
		users:      make(map[string]*models.User),
		lastLogins: make(map[string]time.Time),
	}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Email]; exists {
		return storage.ErrUserAlreadyExists
	}
	for _, u := range m.users {
		if u.CNIC == user.CNIC {
			return storage.ErrUserAlreadyExists
		}
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, user := range m.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdateProfile(ctx context.Context, user *models.User) error {
	stored, err := m.GetUserByID(ctx, user.ID)
	if err != nil {
		return err
	}
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.PhoneNumber = user.PhoneNumber
	return nil
}

func (m *mockUserStorage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	user, err := m.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	user.PasswordHash = passwordHash
	return nil
}

func (m *mockUserStorage) UpdateTwoFactor(ctx context.Context, userID, secret string, enabled bool) error {
	user, err := m.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	user.TOTPSecret = secret
	user.TOTPEnabled = enabled
	return nil
}

func (m *mockUserStorage) DeleteUser(ctx context.Context, userID string) error {
	user, err := m.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	delete(m.users, user.Email)
	return nil
}

func (m *mockUserStorage) UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error {
	m.lastLogins[userID] = lastLogin
	return nil
}

// mockStudentStorage is an in-memory StudentStorage.
type mockStudentStorage struct {
	students    map[string]*models.Student // keyed by ID
	createError error
	getError    error
	nextRoll    int
}

func newMockStudentStorage() *mockStudentStorage {
	return &mockStudentStorage{students: make(map[string]*models.Student)}
}

func (m *mockStudentStorage) CreateStudent(ctx context.Context, student *models.Student) error {
	if m.createError != nil {
		return m.createError
	}
	for _, st := range m.students {
		if st.Email == student.Email || st.CNIC == student.CNIC {
			return storage.ErrStudentAlreadyExists
		}
	}
	m.nextRoll++
	student.RollID = fmt.Sprintf("STU-%05d", m.nextRoll)
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentStorage) GetStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, st := range m.students {
		if st.Email == email {
			return st, nil
		}
	}
	return nil, storage.ErrStudentNotFound
}

func (m *mockStudentStorage) GetStudentByID(ctx context.Context, studentID string) (*models.Student, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	st, ok := m.students[studentID]
	if !ok {
		return nil, storage.ErrStudentNotFound
	}
	return st, nil
}

func (m *mockStudentStorage) ListStudents(ctx context.Context, params storage.ListStudentsParams) ([]*models.Student, int, error) {
	var matched []*models.Student
	for _, st := range m.students {
		if params.Status != "" && st.Status != params.Status {
			continue
		}
		matched = append(matched, st)
	}
	return matched, len(matched), nil
}

func (m *mockStudentStorage) ListAllStudents(ctx context.Context) ([]*models.Student, error) {
	var all []*models.Student
	for _, st := range m.students {
		all = append(all, st)
	}
	return all, nil
}

func (m *mockStudentStorage) CountStudentsByStatus(ctx context.Context) (map[models.StudentStatus]int, error) {
	counts := make(map[models.StudentStatus]int)
	for _, st := range m.students {
		counts[st.Status]++
	}
	return counts, nil
}

func (m *mockStudentStorage) UpdateStudent(ctx context.Context, student *models.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return storage.ErrStudentNotFound
	}
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentStorage) DeleteStudent(ctx context.Context, studentID string) error {
	if _, ok := m.students[studentID]; !ok {
		return storage.ErrStudentNotFound
	}
	delete(m.students, studentID)
	return nil
}

// mockCourseStorage is an in-memory CourseStorage.
type mockCourseStorage struct {
	courses map[string]*models.Course
}

func newMockCourseStorage() *mockCourseStorage {
	return &mockCourseStorage{courses: make(map[string]*models.Course)}
}

func (m *mockCourseStorage) CreateCourse(ctx context.Context, course *models.Course) error {
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseStorage) GetCourseByID(ctx context.Context, courseID string) (*models.Course, error) {
	course, ok := m.courses[courseID]
	if !ok {
		return nil, storage.ErrCourseNotFound
	}
	return course, nil
}

func (m *mockCourseStorage) GetCoursesByIDs(ctx context.Context, ids []string) ([]*models.Course, error) {
	var found []*models.Course
	for _, id := range ids {
		if course, ok := m.courses[id]; ok && course.IsActive {
			found = append(found, course)
		}
	}
	return found, nil
}

func (m *mockCourseStorage) ListActiveCourses(ctx context.Context) ([]*models.Course, error) {
	var active []*models.Course
	for _, course := range m.courses {
		if course.IsActive {
			active = append(active, course)
		}
	}
	return active, nil
}

func (m *mockCourseStorage) CountCourses(ctx context.Context) (int, error) {
	return len(m.courses), nil
}

func (m *mockCourseStorage) UpdateCourse(ctx context.Context, course *models.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return storage.ErrCourseNotFound
	}
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseStorage) DeactivateCourse(ctx context.Context, courseID string) error {
	course, ok := m.courses[courseID]
	if !ok {
		return storage.ErrCourseNotFound
	}
	course.IsActive = false
	return nil
}
