package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbaliev/campushub/internal/server/storage"
)

func TestCreateAndGetCourse(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	course := newTestCourse("c-001", "Web Development")
	require.NoError(t, s.CreateCourse(ctx, course))

	got, err := s.GetCourseByID(ctx, "c-001")
	require.NoError(t, err)
	assert.Equal(t, "Web Development", got.Name)
	assert.Equal(t, int64(25000), got.Price)
	assert.True(t, got.IsActive)

	_, err = s.GetCourseByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, storage.ErrCourseNotFound)
}

func TestGetCoursesByIDs(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCourse(ctx, newTestCourse("c-001", "One")))
	require.NoError(t, s.CreateCourse(ctx, newTestCourse("c-002", "Two")))
	inactive := newTestCourse("c-003", "Three")
	inactive.IsActive = false
	require.NoError(t, s.CreateCourse(ctx, inactive))

	// Inactive and unknown ids simply drop out of the result; callers
	// compare lengths to detect them.
	found, err := s.GetCoursesByIDs(ctx, []string{"c-001", "c-002", "c-003", "ghost"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = s.GetCoursesByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestListActiveCourses(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCourse(ctx, newTestCourse("c-001", "Active")))
	inactive := newTestCourse("c-002", "Inactive")
	inactive.IsActive = false
	require.NoError(t, s.CreateCourse(ctx, inactive))

	active, err := s.ListActiveCourses(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Active", active[0].Name)

	total, err := s.CountCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestUpdateCourse(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	course := newTestCourse("c-001", "Old Name")
	require.NoError(t, s.CreateCourse(ctx, course))

	course.Name = "New Name"
	course.Price = 30000
	require.NoError(t, s.UpdateCourse(ctx, course))

	got, err := s.GetCourseByID(ctx, "c-001")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, int64(30000), got.Price)

	ghost := newTestCourse("no-such-id", "Ghost")
	assert.ErrorIs(t, s.UpdateCourse(ctx, ghost), storage.ErrCourseNotFound)
}

func TestDeactivateCourse(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCourse(ctx, newTestCourse("c-001", "Web Development")))
	require.NoError(t, s.DeactivateCourse(ctx, "c-001"))

	got, err := s.GetCourseByID(ctx, "c-001")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, s.DeactivateCourse(ctx, "ghost"), storage.ErrCourseNotFound)
}
