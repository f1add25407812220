package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nbaliev/campushub/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func newTestUser(id, email string) *models.User {
	now := time.Now()
	return &models.User{
		ID:           id,
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "$2a$10$fakehashforstoragetests",
		CNIC:         "1000000000" + id[len(id)-3:],
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newTestStudent(id, email, cnic string) *models.Student {
	now := time.Now()
	return &models.Student{
		ID:           id,
		FirstName:    "Sam",
		LastName:     "Khan",
		Email:        email,
		PasswordHash: "$2a$10$fakehashforstoragetests",
		CNIC:         cnic,
		Status:       models.StudentPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newTestCourse(id, name string) *models.Course {
	now := time.Now()
	return &models.Course{
		ID:        id,
		Name:      name,
		Days:      "Mon, Wed",
		Timing:    "18:00-20:00",
		Duration:  "3 months",
		Price:     25000,
		CreatedBy: "staff-1",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
