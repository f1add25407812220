// Package cli implements the adminctl commands.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/nbaliev/campushub/internal/client/api"
	"github.com/nbaliev/campushub/internal/client/session"
)

// Cli bundles the API client and the local session store.
type Cli struct {
	apiClient *api.Client
	sessions  session.Storage
	serverURL string
}

// New creates the command runner.
func New(apiClient *api.Client, sessions session.Storage, serverURL string) *Cli {
	return &Cli{
		apiClient: apiClient,
		sessions:  sessions,
		serverURL: serverURL,
	}
}

// currentSession loads the cached session and rejects expired ones.
func (c *Cli) currentSession(ctx context.Context) (*session.Session, error) {
	sess, err := c.sessions.GetSession(ctx)
	if err != nil {
		if err == session.ErrSessionNotFound {
			return nil, fmt.Errorf("not logged in. Please run 'adminctl login' first")
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.Expired() {
		return nil, fmt.Errorf("session expired. Please run 'adminctl login' again")
	}
	return sess, nil
}

func (c *Cli) saveSession(ctx context.Context, email, role, token string, expiresIn int64) error {
	sess := &session.Session{
		Email:     email,
		Role:      role,
		Token:     token,
		ServerURL: c.serverURL,
		ExpiresAt: time.Now().Unix() + expiresIn,
	}
	if err := c.sessions.SaveSession(ctx, sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// PrintUsage prints the command reference.
func PrintUsage() {
	fmt.Println("CampusHub Admin Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  adminctl [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version           Show version information")
	fmt.Println("  --server URL        Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH           Path to local session database (default: adminctl.db)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register            Register a new staff account")
	fmt.Println("  login               Login to the server")
	fmt.Println("  logout              Remove the cached session")
	fmt.Println("  status              Show session and profile status")
	fmt.Println("  students            List students (--page, --limit, --search, --status)")
	fmt.Println("  count               Show the student status breakdown")
	fmt.Println("  export FILE         Download the roster as CSV into FILE")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  adminctl login")
	fmt.Println("  adminctl students --search ali --status Enrolled")
	fmt.Println("  adminctl export students.csv")
	fmt.Println("  adminctl --server https://campus.example.com status")
}

// readInput reads one trimmed line from stdin.
func readInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// readPassword reads a password without echoing it.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(passwordBytes), nil
}
