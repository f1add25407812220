// Package session defines local session storage for adminctl.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when no session is stored.
var ErrSessionNotFound = errors.New("session not found")

// Session is the locally cached login state. The token is a bearer
// credential; the database file must stay mode 0600.
type Session struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	Token     string `json:"token"`
	ServerURL string `json:"server_url"`
	ExpiresAt int64  `json:"expires_at"` // unix seconds
}

// Expired reports whether the cached token is past its lifetime.
func (s *Session) Expired() bool {
	return time.Now().Unix() >= s.ExpiresAt
}

// Storage persists the session between adminctl invocations.
type Storage interface {
	// SaveSession stores the session, replacing any previous one.
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves the stored session.
	// Returns ErrSessionNotFound if none exists.
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored session (logout).
	DeleteSession(ctx context.Context) error
}
