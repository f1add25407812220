// Package api holds the request/response types shared by the server and
// the adminctl client.
package api

import (
	"time"

	"github.com/nbaliev/campushub/internal/models"
)

// RegisterRequest creates a staff account.
type RegisterRequest struct {
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	CNIC        string      `json:"cnic"`
	PhoneNumber string      `json:"phone_number,omitempty"`
	Role        models.Role `json:"role"`
}

// LoginRequest authenticates a staff account or a student.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a bearer token back to the client. When the
// account has two-factor enabled, Token is the short-lived pending token
// and Requires2FA is true; the client must complete verification before it
// holds a usable session.
type TokenResponse struct {
	Token       string      `json:"token"`
	ExpiresIn   int64       `json:"expires_in"`
	Role        models.Role `json:"role"`
	Requires2FA bool        `json:"requires_2fa,omitempty"`
}

// Verify2FARequest completes a two-factor login. The pending token travels
// in the body, not the Authorization header, so it never looks like a
// session credential on the wire.
type Verify2FARequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

// ProfileResponse is the public view of a staff account.
type ProfileResponse struct {
	ID          string      `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	CNIC        string      `json:"cnic"`
	PhoneNumber string      `json:"phone_number,omitempty"`
	Role        models.Role `json:"role"`
	TOTPEnabled bool        `json:"totp_enabled"`
	CreatedAt   time.Time   `json:"created_at"`
	LastLogin   *time.Time  `json:"last_login,omitempty"`
}

// UpdateProfileRequest updates the mutable profile fields.
type UpdateProfileRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// ChangePasswordRequest rotates the account password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// TwoFactorSetupResponse returns the generated secret and its otpauth URL
// (the QR payload). The secret is shown exactly once.
type TwoFactorSetupResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// TwoFactorVerifyRequest proves possession of the secret during setup.
type TwoFactorVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFactorDisableRequest turns two-factor off. Disabling requires the
// current password.
type TwoFactorDisableRequest struct {
	Password string `json:"password"`
}

// DeleteAccountRequest removes the calling account.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// MessageResponse is a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the stable error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
