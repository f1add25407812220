package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nbaliev/campushub/internal/client/api"
)

// Students lists one page of the roster as a table.
func (c *Cli) Students(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("students", flag.ContinueOnError)
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 20, "Records per page")
	search := fs.String("search", "", "Search name, email, cnic or phone")
	status := fs.String("status", "", "Filter by status (Pending/Enrolled/Suspended/Withdrawn)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	resp, err := c.apiClient.ListStudents(ctx, sess.Token, api.ListStudentsQuery{
		Page:   *page,
		Limit:  *limit,
		Search: *search,
		Status: *status,
	})
	if err != nil {
		return err
	}

	if len(resp.Students) == 0 {
		fmt.Println("No students found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROLL ID\tNAME\tEMAIL\tSTATUS\tCOURSES")
	for _, st := range resp.Students {
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%d\n",
			st.RollID, st.FirstName, st.LastName, st.Email, st.Status, len(st.Enrollments))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Page %d of %d (%d records)\n", resp.CurrentPage, resp.TotalPages, resp.TotalRecords)
	return nil
}

// Count prints the status breakdown.
func (c *Cli) Count(ctx context.Context) error {
	sess, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	counts, err := c.apiClient.StudentCount(ctx, sess.Token)
	if err != nil {
		return err
	}

	fmt.Printf("Total:     %d\n", counts.Total)
	fmt.Printf("Pending:   %d\n", counts.Pending)
	fmt.Printf("Enrolled:  %d\n", counts.Enrolled)
	fmt.Printf("Suspended: %d\n", counts.Suspended)
	fmt.Printf("Withdrawn: %d\n", counts.Withdrawn)
	return nil
}
