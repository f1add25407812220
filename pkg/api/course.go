package api

import "github.com/nbaliev/campushub/internal/models"

// CourseRequest creates or updates a course.
type CourseRequest struct {
	Name           string `json:"name"`
	Days           string `json:"days,omitempty"`
	Timing         string `json:"timing,omitempty"`
	Duration       string `json:"duration,omitempty"`
	Price          int64  `json:"price,omitempty"`
	ModeOfDelivery string `json:"mode_of_delivery,omitempty"`
}

// CourseResponse wraps a single course.
type CourseResponse struct {
	Message string         `json:"message,omitempty"`
	Course  *models.Course `json:"course"`
}

// CourseCountResponse is the dashboard course count.
type CourseCountResponse struct {
	Total int `json:"total"`
}
