package cli

import (
	"context"
	"fmt"
	"os"
)

// Export downloads the full roster CSV into the named file.
func (c *Cli) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: adminctl export FILE")
	}
	outPath := args[0]

	sess, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	data, err := c.apiClient.ExportCSV(ctx, sess.Token)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	fmt.Printf("Wrote %d bytes to %s\n", len(data), outPath)
	return nil
}
