package cli

import (
	"context"
	"fmt"

	"github.com/nbaliev/campushub/internal/models"
	"github.com/nbaliev/campushub/pkg/api"
)

// Register prompts for the staff account fields and registers it. The
// returned token becomes the cached session.
func (c *Cli) Register(ctx context.Context) error {
	fmt.Println("=== Register Staff Account ===")
	fmt.Println()

	firstName, err := readInput("First name: ")
	if err != nil {
		return fmt.Errorf("failed to read first name: %w", err)
	}
	lastName, err := readInput("Last name: ")
	if err != nil {
		return fmt.Errorf("failed to read last name: %w", err)
	}
	email, err := readInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	cnic, err := readInput("CNIC (13 digits): ")
	if err != nil {
		return fmt.Errorf("failed to read cnic: %w", err)
	}
	role, err := readInput("Role (admin/instructor/maintenance_office): ")
	if err != nil {
		return fmt.Errorf("failed to read role: %w", err)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("Registering...")

	resp, err := c.apiClient.Register(ctx, api.RegisterRequest{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
		CNIC:      cnic,
		Role:      models.Role(role),
	})
	if err != nil {
		return err
	}

	if err := c.saveSession(ctx, email, string(resp.Role), resp.Token, resp.ExpiresIn); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Account created and logged in.")
	fmt.Printf("Email: %s\n", email)
	fmt.Printf("Role:  %s\n", resp.Role)
	return nil
}
