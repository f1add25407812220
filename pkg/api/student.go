package api

import "github.com/nbaliev/campushub/internal/models"

// StudentRegisterRequest creates a student record. ProfilePictureData, if
// set, is base64 image data that the server pushes to the image host; the
// stored record only ever holds the resulting URL.
type StudentRegisterRequest struct {
	FirstName          string         `json:"first_name"`
	LastName           string         `json:"last_name"`
	Email              string         `json:"email"`
	Password           string         `json:"password"`
	CNIC               string         `json:"cnic"`
	PhoneNumber        string         `json:"phone_number,omitempty"`
	DateOfBirth        string         `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Gender             string         `json:"gender,omitempty"`
	Address            models.Address `json:"address"`
	GuardianName       string         `json:"guardian_name,omitempty"`
	GuardianPhone      string         `json:"guardian_phone,omitempty"`
	GuardianRelation   string         `json:"guardian_relation,omitempty"`
	CourseIDs          []string       `json:"course_ids,omitempty"`
	ProfilePictureData string         `json:"profile_picture_data,omitempty"`
}

// StudentUpdateRequest rewrites a student record.
type StudentUpdateRequest struct {
	FirstName          string               `json:"first_name"`
	LastName           string               `json:"last_name"`
	Email              string               `json:"email"`
	PhoneNumber        string               `json:"phone_number,omitempty"`
	DateOfBirth        string               `json:"date_of_birth,omitempty"`
	Gender             string               `json:"gender,omitempty"`
	Address            models.Address       `json:"address"`
	GuardianName       string               `json:"guardian_name,omitempty"`
	GuardianPhone      string               `json:"guardian_phone,omitempty"`
	GuardianRelation   string               `json:"guardian_relation,omitempty"`
	Status             models.StudentStatus `json:"status,omitempty"`
	CourseIDs          []string             `json:"course_ids"`
	ProfilePictureData string               `json:"profile_picture_data,omitempty"`
}

// StudentResponse wraps a single student record.
type StudentResponse struct {
	Message string          `json:"message,omitempty"`
	Student *models.Student `json:"student"`
}

// StudentListResponse is the paged listing envelope.
type StudentListResponse struct {
	Students     []*models.Student `json:"students"`
	TotalPages   int               `json:"total_pages"`
	CurrentPage  int               `json:"current_page"`
	TotalRecords int               `json:"total_records"`
	Limit        int               `json:"limit"`
	SortField    string            `json:"sort_field"`
	SortOrder    string            `json:"sort_order"`
}

// StudentCountResponse is the dashboard status breakdown.
type StudentCountResponse struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Enrolled  int `json:"enrolled"`
	Suspended int `json:"suspended"`
	Withdrawn int `json:"withdrawn"`
}

// EnrolledCountResponse answers /students/enrolled?count=true.
type EnrolledCountResponse struct {
	Count int `json:"count"`
}
