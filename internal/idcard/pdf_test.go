package idcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbaliev/campushub/internal/models"
)

func TestRender(t *testing.T) {
	r := NewRenderer("CampusHub Training Center")

	student := &models.Student{
		ID:        "st-001",
		RollID:    "STU-00001",
		FirstName: "Sam",
		LastName:  "Khan",
		Email:     "sam@example.com",
		CNIC:      "1234567890123",
		Status:    models.StudentEnrolled,
		Enrollments: []models.Enrollment{
			{CourseID: "c-001", CourseName: "Web Development", Status: "Active"},
		},
	}

	pdf, err := r.Render(student)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestRender_NoRollID(t *testing.T) {
	r := NewRenderer("")

	_, err := r.Render(&models.Student{ID: "st-001", FirstName: "Sam"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roll id")
}

func TestNewRenderer_DefaultInstitution(t *testing.T) {
	r := NewRenderer("")
	assert.Equal(t, "CampusHub", r.institution)
}
