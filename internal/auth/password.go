// Package auth implements the credential primitives: slow salted password
// hashing and time-based one-time-code verification.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the rest of the system was sized for.
const bcryptCost = 10

// HashPassword derives a salted bcrypt hash from a plaintext password.
// A hashing failure must abort the enclosing write: never persist an
// account without a hash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// A wrong password is false, not an error; only a malformed hash would be
// worth logging, and even then the caller still just denies the login.
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		// Malformed hash in storage. Treat as a failed match.
		return false
	}
	return false
}
