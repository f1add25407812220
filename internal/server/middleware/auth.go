package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nbaliev/campushub/internal/models"
	"github.com/nbaliev/campushub/internal/server/handlers"
	"github.com/nbaliev/campushub/internal/server/token"
)

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"error":%q,"message":%q}`, http.StatusText(status), message)
}

// RequireRoles gates a handler behind "authenticated AND role in allowed
// set". Missing token is 401 authentication-required; an invalid, expired
// or pending token is 401 invalid-token (pending tokens are deliberately
// indistinguishable from garbage here); a valid token with the wrong role
// is 403 naming the required roles. On success the identity is attached to
// the request context.
//
// The raw token is never logged.
func RequireRoles(logger *slog.Logger, tokens *token.Service, roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		allowed[r] = true
		names = append(names, string(r))
	}
	deniedMessage := "access denied, required role: " + strings.Join(names, " or ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeAuthError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			// VerifyFull rejects pending-2FA tokens with the same error
			// as any invalid token.
			claims, err := tokens.VerifyFull(parts[1])
			if err != nil {
				logger.WarnContext(r.Context(), "rejected bearer token",
					slog.String("path", r.URL.Path))
				writeAuthError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			if len(allowed) > 0 && !allowed[claims.Role] {
				logger.WarnContext(r.Context(), "insufficient role",
					slog.String("role", string(claims.Role)),
					slog.String("path", r.URL.Path))
				writeAuthError(w, http.StatusForbidden, deniedMessage)
				return
			}

			identity := handlers.Identity{UserID: claims.Subject, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(handlers.WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAuth is RequireRoles with no role restriction: any full session
// token passes.
func RequireAuth(logger *slog.Logger, tokens *token.Service) func(http.Handler) http.Handler {
	return RequireRoles(logger, tokens)
}
