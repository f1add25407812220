package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nbaliev/campushub/internal/models"
	"github.com/nbaliev/campushub/internal/server/storage"
)

const userColumns = `id, first_name, last_name, email, password_hash, cnic,
	phone_number, role, totp_secret, totp_enabled, created_at, updated_at, last_login`

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateUser inserts a new staff account.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash, cnic,
			phone_number, role, totp_secret, totp_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.CNIC,
		user.PhoneNumber,
		string(user.Role),
		user.TOTPSecret,
		user.TOTPEnabled,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime
	var role string

	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.CNIC,
		&user.PhoneNumber,
		&role,
		&user.TOTPSecret,
		&user.TOTPEnabled,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.Role = models.Role(role)
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return user, nil
}

// GetUserByEmail retrieves a staff account by email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetUserByID retrieves a staff account by ID.
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(s.db.QueryRowContext(ctx, query, userID))
}

// UpdateProfile updates the mutable profile fields.
func (s *Storage) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = ?, last_name = ?, phone_number = ?, updated_at = ?
		WHERE id = ?
	`
	return s.execOnUser(ctx, query,
		user.FirstName, user.LastName, user.PhoneNumber, time.Now(), user.ID)
}

// UpdatePassword replaces the stored password hash.
func (s *Storage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`
	return s.execOnUser(ctx, query, passwordHash, time.Now(), userID)
}

// UpdateTwoFactor writes secret and enabled flag in a single statement.
func (s *Storage) UpdateTwoFactor(ctx context.Context, userID, secret string, enabled bool) error {
	query := `UPDATE users SET totp_secret = ?, totp_enabled = ?, updated_at = ? WHERE id = ?`
	return s.execOnUser(ctx, query, secret, enabled, time.Now(), userID)
}

// DeleteUser removes the account.
func (s *Storage) DeleteUser(ctx context.Context, userID string) error {
	return s.execOnUser(ctx, `DELETE FROM users WHERE id = ?`, userID)
}

// UpdateLastLogin stamps the last successful login time.
func (s *Storage) UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error {
	query := `UPDATE users SET last_login = ? WHERE id = ?`
	return s.execOnUser(ctx, query, lastLogin, userID)
}

// execOnUser runs a write that must touch exactly one user row.
func (s *Storage) execOnUser(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}
