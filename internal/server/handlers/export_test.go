package handlers

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbaliev/campushub/internal/models"
)

func TestExportCSV(t *testing.T) {
	f := newStudentFixture(t)

	dob := time.Date(2004, 5, 17, 0, 0, 0, 0, time.UTC)
	f.students.students["s1"] = &models.Student{
		ID:           "s1",
		RollID:       "STU-00001",
		FirstName:    "Sam",
		LastName:     "Khan",
		Email:        "sam@example.com",
		PasswordHash: "$2a$10$secrethashvalue",
		CNIC:         "1234567890123",
		PhoneNumber:  "0300-1234567",
		DateOfBirth:  &dob,
		Gender:       "male",
		Address:      models.Address{Street: "12 Main St", City: "Lahore", Country: "Pakistan"},
		GuardianName: "Ali Khan",
		Status:       models.StudentEnrolled,
		TOTPSecret:   "TOTPSECRETVALUE",
		Enrollments: []models.Enrollment{
			{CourseID: "c1", CourseName: "Web Development", Status: "Active"},
			{CourseID: "c2", CourseName: "Graphic Design", Status: "Completed"},
		},
		CreatedAt: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/export/csv", nil)
	rec := httptest.NewRecorder()
	f.handler.ExportCSV(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, exportHeader, records[0])

	row := records[1]
	assert.Equal(t, "STU-00001", row[0])
	assert.Equal(t, "Sam", row[1])
	assert.Equal(t, "2004-05-17", row[6])
	assert.Equal(t, "12 Main St, Lahore, Pakistan", row[8])
	assert.Equal(t, "Enrolled", row[12])
	assert.Equal(t, "Web Development (Active); Graphic Design (Completed)", row[13])
	assert.Equal(t, "2026-01-02", row[14])

	// Credentials never leave through the export.
	assert.NotContains(t, rec.Body.String(), "secrethashvalue")
	assert.NotContains(t, rec.Body.String(), "TOTPSECRETVALUE")
}

func TestExportCSV_Empty(t *testing.T) {
	f := newStudentFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/export/csv", nil)
	rec := httptest.NewRecorder()
	f.handler.ExportCSV(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}
