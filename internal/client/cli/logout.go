package cli

import (
	"context"
	"fmt"

	"github.com/nbaliev/campushub/internal/client/session"
)

// Logout drops the cached session. The server holds no session state, so
// this is purely local.
func (c *Cli) Logout(ctx context.Context) error {
	if err := c.sessions.DeleteSession(ctx); err != nil {
		if err == session.ErrSessionNotFound {
			fmt.Println("Not logged in.")
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}
