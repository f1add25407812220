package models

import "time"

// StudentStatus tracks a student through the enrollment lifecycle.
type StudentStatus string

const (
	StudentPending   StudentStatus = "Pending"
	StudentEnrolled  StudentStatus = "Enrolled"
	StudentSuspended StudentStatus = "Suspended"
	StudentWithdrawn StudentStatus = "Withdrawn"
)

// StudentStatuses lists every valid status, in lifecycle order.
var StudentStatuses = []StudentStatus{
	StudentPending, StudentEnrolled, StudentSuspended, StudentWithdrawn,
}

// ValidStudentStatus reports whether s is a known status value.
func ValidStudentStatus(s StudentStatus) bool {
	for _, known := range StudentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Address is the postal address block on a student record.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

// Enrollment links a student to one course.
type Enrollment struct {
	CourseID   string    `json:"course_id"`
	CourseName string    `json:"course_name,omitempty"`
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// Student represents a student account. Students authenticate like staff
// but live in their own table; email and CNIC are unique per table.
type Student struct {
	ID               string        `json:"id"`
	RollID           string        `json:"roll_id"`
	FirstName        string        `json:"first_name"`
	LastName         string        `json:"last_name"`
	Email            string        `json:"email"`
	PasswordHash     string        `json:"-"`
	CNIC             string        `json:"cnic"`
	PhoneNumber      string        `json:"phone_number,omitempty"`
	DateOfBirth      *time.Time    `json:"date_of_birth,omitempty"`
	Gender           string        `json:"gender,omitempty"`
	Address          Address       `json:"address"`
	GuardianName     string        `json:"guardian_name,omitempty"`
	GuardianPhone    string        `json:"guardian_phone,omitempty"`
	GuardianRelation string        `json:"guardian_relation,omitempty"`
	ProfilePicture   string        `json:"profile_picture,omitempty"`
	Status           StudentStatus `json:"status"`
	TOTPSecret       string        `json:"-"`
	TOTPEnabled      bool          `json:"totp_enabled"`
	Enrollments      []Enrollment  `json:"enrolled_courses"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// CanAccessAccount reports whether the student may log in at all.
// Pending and suspended accounts are locked out until the office acts.
func (s *Student) CanAccessAccount() bool {
	return s.Status == StudentEnrolled
}

// Credential returns the login capability view of the student.
func (s *Student) Credential() Credential {
	return Credential{
		ID:           s.ID,
		Role:         RoleStudent,
		PasswordHash: s.PasswordHash,
		TOTPSecret:   s.TOTPSecret,
		TOTPEnabled:  s.TOTPEnabled,
	}
}
