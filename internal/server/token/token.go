// Package token issues and verifies the signed bearer tokens used by the
// API. Tokens are stateless: there is no server-side revocation, so a
// compromised token stays valid until its expiry. Operators accepting that
// trade-off should keep the signing secret rotated.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nbaliev/campushub/internal/models"
)

const (
	// FullTokenTTL is the lifetime of a regular session token.
	FullTokenTTL = 24 * time.Hour
	// PendingTokenTTL is the lifetime of the restricted token issued
	// mid-login when two-factor verification is still outstanding.
	PendingTokenTTL = 5 * time.Minute

	issuer = "campushub"
)

// ErrInvalidToken is returned for any token that fails verification:
// malformed, bad signature, or expired. Callers must not distinguish the
// cases to the client.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the token payload: subject identity, role, and whether the
// token is the restricted pending-2FA variant.
type Claims struct {
	Subject     string      `json:"sub_id"`
	Role        models.Role `json:"role"`
	Requires2FA bool        `json:"requires_2fa,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies tokens with a process-wide HS256 secret.
// Safe for concurrent use; verification does no I/O.
type Service struct {
	secret     []byte
	fullTTL    time.Duration
	pendingTTL time.Duration
}

// New builds a token service. An empty secret is a configuration error:
// the caller must fail startup rather than fall back to a baked-in value.
func New(secret string) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("token signing secret is required")
	}
	return &Service{
		secret:     []byte(secret),
		fullTTL:    FullTokenTTL,
		pendingTTL: PendingTokenTTL,
	}, nil
}

// IssueFull creates a full session token for the subject and role.
func (s *Service) IssueFull(subject string, role models.Role) (string, int64, error) {
	return s.issue(subject, role, false, s.fullTTL)
}

// IssuePending creates the short-lived intermediate token that only the
// 2FA-completion endpoint honors.
func (s *Service) IssuePending(subject string, role models.Role) (string, int64, error) {
	return s.issue(subject, role, true, s.pendingTTL)
}

func (s *Service) issue(subject string, role models.Role, pending bool, ttl time.Duration) (string, int64, error) {
	now := time.Now()
	claims := Claims{
		Subject:     subject,
		Role:        role,
		Requires2FA: pending,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, int64(ttl.Seconds()), nil
}

// Verify parses and validates a token string. Any failure — bad form, bad
// signature, expiry — comes back as ErrInvalidToken. The returned claims
// may still be the pending variant; callers that require a full session
// must check Requires2FA.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyFull is Verify plus the rule that pending tokens are rejected with
// the same error as any invalid token, so callers cannot leak which case
// failed.
func (s *Service) VerifyFull(tokenString string) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Requires2FA {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyPending accepts only the pending-2FA variant. Used exclusively by
// the login verify-2fa handler.
func (s *Service) VerifyPending(tokenString string) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if !claims.Requires2FA {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
