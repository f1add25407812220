package handlers

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nbaliev/campushub/internal/models"
)

var exportHeader = []string{
	"Roll ID", "First Name", "Last Name", "Email", "CNIC", "Phone Number",
	"Date of Birth", "Gender", "Address", "Guardian Name", "Guardian Phone",
	"Guardian Relation", "Status", "Enrolled Courses", "Registration Date",
}

// formatAddress flattens the address block to one CSV cell.
func formatAddress(a models.Address) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.State, a.ZipCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// formatEnrollments renders "Course Name (Status); ..." for one cell.
func formatEnrollments(enrollments []models.Enrollment) string {
	parts := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		parts = append(parts, fmt.Sprintf("%s (%s)", e.CourseName, e.Status))
	}
	return strings.Join(parts, "; ")
}

func exportRow(st *models.Student) []string {
	dob := ""
	if st.DateOfBirth != nil {
		dob = st.DateOfBirth.Format("2006-01-02")
	}
	return []string{
		st.RollID,
		st.FirstName,
		st.LastName,
		st.Email,
		st.CNIC,
		st.PhoneNumber,
		dob,
		st.Gender,
		formatAddress(st.Address),
		st.GuardianName,
		st.GuardianPhone,
		st.GuardianRelation,
		string(st.Status),
		formatEnrollments(st.Enrollments),
		st.CreatedAt.Format("2006-01-02"),
	}
}

// ExportCSV handles GET /api/v1/students/export/csv. The full roster is
// streamed as a CSV attachment; password hashes and 2FA secrets never
// appear in it.
func (h *StudentHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	students, err := h.students.ListAllStudents(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load students for export", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("students-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		h.logger.ErrorContext(ctx, "failed to write csv header", slog.Any("error", err))
		return
	}
	for _, st := range students {
		if err := writer.Write(exportRow(st)); err != nil {
			h.logger.ErrorContext(ctx, "failed to write csv row", slog.Any("error", err))
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logger.ErrorContext(ctx, "failed to flush csv", slog.Any("error", err))
	}
}
