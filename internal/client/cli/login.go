package cli

import (
	"context"
	"fmt"

	"github.com/nbaliev/campushub/pkg/api"
)

// Login prompts for credentials, completes the 2FA step when the server
// demands one, and caches the session token.
func (c *Cli) Login(ctx context.Context) error {
	fmt.Println("=== Login ===")
	fmt.Println()

	email, err := readInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Println()
	fmt.Println("Authenticating...")

	resp, err := c.apiClient.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	if resp.Requires2FA {
		code, err := readInput("Two-factor code: ")
		if err != nil {
			return fmt.Errorf("failed to read code: %w", err)
		}
		resp, err = c.apiClient.VerifyLogin2FA(ctx, api.Verify2FARequest{
			Token: resp.Token,
			Code:  code,
		})
		if err != nil {
			return err
		}
	}

	if err := c.saveSession(ctx, email, string(resp.Role), resp.Token, resp.ExpiresIn); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Login successful.")
	fmt.Printf("Email: %s\n", email)
	fmt.Printf("Role:  %s\n", resp.Role)
	fmt.Printf("Token expires in %d seconds.\n", resp.ExpiresIn)
	return nil
}
