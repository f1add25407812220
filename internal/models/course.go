package models

import "time"

// Course represents a course offered by the training center.
type Course struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Days           string    `json:"days"`
	Timing         string    `json:"timing"`
	Duration       string    `json:"duration"`
	Price          int64     `json:"price"`
	ModeOfDelivery string    `json:"mode_of_delivery"`
	CreatedBy      string    `json:"created_by"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
