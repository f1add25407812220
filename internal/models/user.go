package models

import "time"

// Role is the coarse permission category attached to a staff account.
// Students are a parallel identity and carry the implicit RoleStudent.
type Role string

const (
	RoleAdmin             Role = "admin"
	RoleInstructor        Role = "instructor"
	RoleMaintenanceOffice Role = "maintenance_office"
	RoleStudent           Role = "student"
)

// StaffRoles are the roles assignable at staff registration.
var StaffRoles = []Role{RoleAdmin, RoleInstructor, RoleMaintenanceOffice}

// Valid reports whether r is one of the staff roles.
func (r Role) Valid() bool {
	for _, known := range StaffRoles {
		if r == known {
			return true
		}
	}
	return false
}

// User represents a staff account (admin, instructor or maintenance office).
type User struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CNIC         string     `json:"cnic"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	Role         Role       `json:"role"`
	TOTPSecret   string     `json:"-"`
	TOTPEnabled  bool       `json:"totp_enabled"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Credential is the authentication capability shared by staff and student
// accounts. Both login paths build one of these so the password check and
// the two-factor branching live in exactly one place.
type Credential struct {
	ID           string
	Role         Role
	PasswordHash string
	TOTPSecret   string
	TOTPEnabled  bool
}

// Credential returns the login capability view of the user.
func (u *User) Credential() Credential {
	return Credential{
		ID:           u.ID,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
		TOTPSecret:   u.TOTPSecret,
		TOTPEnabled:  u.TOTPEnabled,
	}
}
