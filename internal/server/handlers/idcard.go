package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nbaliev/campushub/internal/email"
	"github.com/nbaliev/campushub/internal/models"
	"github.com/nbaliev/campushub/pkg/api"
)

// CardRenderer produces the printable ID card document.
type CardRenderer interface {
	Render(student *models.Student) ([]byte, error)
}

// CardMailer delivers mail with attachments.
type CardMailer interface {
	Send(to, subject, body string, attachments ...email.Attachment) error
}

// IDCardHandler renders a student ID card and mails it to the student.
type IDCardHandler struct {
	logger   *slog.Logger
	handler  *StudentHandler
	renderer CardRenderer
	mailer   CardMailer // nil when SMTP is not configured
}

// NewIDCardHandler creates the ID card handler. mailer may be nil; the
// endpoint then reports that mail delivery is unavailable.
func NewIDCardHandler(logger *slog.Logger, students *StudentHandler, renderer CardRenderer, mailer CardMailer) *IDCardHandler {
	return &IDCardHandler{
		logger:   logger,
		handler:  students,
		renderer: renderer,
		mailer:   mailer,
	}
}

// Send handles POST /api/v1/students/{id}/id-card.
func (h *IDCardHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	student, ok := h.handler.byID(w, r)
	if !ok {
		return
	}
	if student.RollID == "" {
		sendError(w, "student has no roll id assigned", http.StatusConflict)
		return
	}

	pdf, err := h.renderer.Render(student)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to render id card",
			slog.String("student_id", student.ID),
			slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if h.mailer == nil {
		sendError(w, "mail delivery is not configured", http.StatusServiceUnavailable)
		return
	}

	subject := "Your student ID card"
	body := fmt.Sprintf("Dear %s %s,\n\nYour student ID card (%s) is attached.\n\nRegards,\nThe Administration",
		student.FirstName, student.LastName, student.RollID)
	attachment := email.Attachment{
		Filename:    fmt.Sprintf("id-card-%s.pdf", student.RollID),
		ContentType: "application/pdf",
		Data:        pdf,
	}

	if err := h.mailer.Send(student.Email, subject, body, attachment); err != nil {
		h.logger.ErrorContext(ctx, "failed to mail id card",
			slog.String("student_id", student.ID),
			slog.Any("error", err))
		sendError(w, "failed to send id card", http.StatusBadGateway)
		return
	}

	h.logger.InfoContext(ctx, "id card sent",
		slog.String("student_id", student.ID),
		slog.String("roll_id", student.RollID))
	sendJSON(w, api.MessageResponse{Message: "id card sent to " + student.Email}, http.StatusOK)
}
