package storage

import (
	"context"
	"time"

	"github.com/nbaliev/campushub/internal/models"
)

// UserStorage defines persistence for staff accounts.
type UserStorage interface {
	// CreateUser inserts a new staff account.
	// Returns ErrUserAlreadyExists on duplicate email or CNIC.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a staff account by (lowercased) email.
	// Returns ErrUserNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a staff account by ID.
	// Returns ErrUserNotFound if absent.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateProfile updates the mutable profile fields (names, phone).
	UpdateProfile(ctx context.Context, user *models.User) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// UpdateTwoFactor writes the TOTP secret and enabled flag in one
	// statement so concurrent setups degrade to last-writer-wins rather
	// than a half-written secret.
	UpdateTwoFactor(ctx context.Context, userID, secret string, enabled bool) error

	// DeleteUser removes the account. Returns ErrUserNotFound if absent.
	DeleteUser(ctx context.Context, userID string) error

	// UpdateLastLogin stamps the last successful login time.
	UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error
}
