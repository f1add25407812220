package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/nbaliev/campushub/internal/client/session"
)

// Status shows the cached session and, when it is still valid, the
// profile as the server sees it.
func (c *Cli) Status(ctx context.Context) error {
	sess, err := c.sessions.GetSession(ctx)
	if err != nil {
		if err == session.ErrSessionNotFound {
			fmt.Println("Not logged in.")
			return nil
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	fmt.Println("=== Session ===")
	fmt.Printf("Email:   %s\n", sess.Email)
	fmt.Printf("Role:    %s\n", sess.Role)
	fmt.Printf("Server:  %s\n", sess.ServerURL)
	if sess.Expired() {
		fmt.Println("Status:  expired")
		return nil
	}
	fmt.Printf("Expires: %s\n", time.Unix(sess.ExpiresAt, 0).Format(time.RFC3339))

	profile, err := c.apiClient.Profile(ctx, sess.Token)
	if err != nil {
		fmt.Printf("Status:  token rejected by server (%v)\n", err)
		return nil
	}

	fmt.Println()
	fmt.Println("=== Profile ===")
	fmt.Printf("Name:       %s %s\n", profile.FirstName, profile.LastName)
	fmt.Printf("Role:       %s\n", profile.Role)
	fmt.Printf("Two-factor: %v\n", profile.TOTPEnabled)
	if profile.LastLogin != nil {
		fmt.Printf("Last login: %s\n", profile.LastLogin.Format(time.RFC3339))
	}
	return nil
}
