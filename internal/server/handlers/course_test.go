package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbaliev/campushub/internal/models"
	"github.com/nbaliev/campushub/pkg/api"
)

func newCourseFixture(t *testing.T) (*CourseHandler, *mockCourseStorage) {
	t.Helper()
	courses := newMockCourseStorage()
	return NewCourseHandler(testLogger(), courses), courses
}

func newCourseIDRequest(method, id string, body any, identity *Identity) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1/courses/"+id, reader)
	req.SetPathValue("id", id)
	if identity != nil {
		req = req.WithContext(WithIdentity(req.Context(), *identity))
	}
	return req
}

func TestCourseCreate(t *testing.T) {
	handler, courses := newCourseFixture(t)

	rec := authedRequest(t, handler.Create, http.MethodPost, "/api/v1/courses", api.CourseRequest{
		Name:           "Web Development",
		Days:           "Mon, Wed",
		Timing:         "18:00-20:00",
		Duration:       "3 months",
		Price:          25000,
		ModeOfDelivery: "onsite",
	}, Identity{UserID: "staff-1", Role: models.RoleMaintenanceOffice})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp api.CourseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Course)
	assert.Equal(t, "Web Development", resp.Course.Name)
	assert.Equal(t, "staff-1", resp.Course.CreatedBy)
	assert.True(t, resp.Course.IsActive)
	assert.Len(t, courses.courses, 1)
}

func TestCourseCreate_Validation(t *testing.T) {
	handler, _ := newCourseFixture(t)
	identity := Identity{UserID: "staff-1", Role: models.RoleMaintenanceOffice}

	noName := authedRequest(t, handler.Create, http.MethodPost, "/api/v1/courses",
		api.CourseRequest{Price: 100}, identity)
	assert.Equal(t, http.StatusBadRequest, noName.Code)

	negPrice := authedRequest(t, handler.Create, http.MethodPost, "/api/v1/courses",
		api.CourseRequest{Name: "X", Price: -1}, identity)
	assert.Equal(t, http.StatusBadRequest, negPrice.Code)
}

func TestCourseList_ActiveOnly(t *testing.T) {
	handler, courses := newCourseFixture(t)
	courses.courses["c1"] = &models.Course{ID: "c1", Name: "Active", IsActive: true}
	courses.courses["c2"] = &models.Course{ID: "c2", Name: "Retired", IsActive: false}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var listed []*models.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Active", listed[0].Name)
}

func TestCourseCount(t *testing.T) {
	handler, courses := newCourseFixture(t)
	courses.courses["c1"] = &models.Course{ID: "c1", IsActive: true}
	courses.courses["c2"] = &models.Course{ID: "c2", IsActive: false}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/count", nil)
	rec := httptest.NewRecorder()
	handler.Count(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.CourseCountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
}

func TestCourseGetUpdateDelete(t *testing.T) {
	handler, courses := newCourseFixture(t)
	courses.courses["c1"] = &models.Course{ID: "c1", Name: "Old Name", IsActive: true}

	getRec := httptest.NewRecorder()
	handler.Get(getRec, newCourseIDRequest(http.MethodGet, "c1", nil, nil))
	assert.Equal(t, http.StatusOK, getRec.Code)

	missingRec := httptest.NewRecorder()
	handler.Get(missingRec, newCourseIDRequest(http.MethodGet, "nope", nil, nil))
	assert.Equal(t, http.StatusNotFound, missingRec.Code)

	updateRec := httptest.NewRecorder()
	handler.Update(updateRec, newCourseIDRequest(http.MethodPut, "c1", api.CourseRequest{
		Name:  "New Name",
		Price: 1000,
	}, nil))
	require.Equal(t, http.StatusOK, updateRec.Code)
	assert.Equal(t, "New Name", courses.courses["c1"].Name)

	// Delete deactivates rather than removing.
	deleteRec := httptest.NewRecorder()
	handler.Delete(deleteRec, newCourseIDRequest(http.MethodDelete, "c1", nil, nil))
	require.Equal(t, http.StatusOK, deleteRec.Code)
	require.Contains(t, courses.courses, "c1")
	assert.False(t, courses.courses["c1"].IsActive)
}
