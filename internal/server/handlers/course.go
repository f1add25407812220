package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nbaliev/campushub/internal/models"
	"github.com/nbaliev/campushub/internal/server/storage"
	"github.com/nbaliev/campushub/pkg/api"
)

// CourseHandler owns the course catalog. Writes are gated to the
// maintenance office at the router; reads need any authenticated session.
type CourseHandler struct {
	logger  *slog.Logger
	courses storage.CourseStorage
}

// NewCourseHandler creates the course handler.
func NewCourseHandler(logger *slog.Logger, courses storage.CourseStorage) *CourseHandler {
	return &CourseHandler{logger: logger, courses: courses}
}

// Create handles POST /api/v1/courses.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		sendError(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.Price < 0 {
		sendError(w, "price must not be negative", http.StatusBadRequest)
		return
	}

	identity, _ := GetIdentity(ctx)
	now := time.Now()
	course := &models.Course{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Days:           req.Days,
		Timing:         req.Timing,
		Duration:       req.Duration,
		Price:          req.Price,
		ModeOfDelivery: req.ModeOfDelivery,
		CreatedBy:      identity.UserID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.courses.CreateCourse(ctx, course); err != nil {
		h.logger.ErrorContext(ctx, "failed to create course", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "course created",
		slog.String("course_id", course.ID),
		slog.String("name", course.Name))

	sendJSON(w, api.CourseResponse{
		Message: "course created",
		Course:  course,
	}, http.StatusCreated)
}

// List handles GET /api/v1/courses. Only active courses are listed.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courses, err := h.courses.ListActiveCourses(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list courses", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if courses == nil {
		courses = []*models.Course{}
	}
	sendJSON(w, courses, http.StatusOK)
}

// Count handles GET /api/v1/courses/count.
func (h *CourseHandler) Count(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.courses.CountCourses(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count courses", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	sendJSON(w, api.CourseCountResponse{Total: total}, http.StatusOK)
}

// byID loads the course addressed by the {id} path segment.
func (h *CourseHandler) byID(w http.ResponseWriter, r *http.Request) (*models.Course, bool) {
	course, err := h.courses.GetCourseByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrCourseNotFound) {
			sendError(w, "course not found", http.StatusNotFound)
			return nil, false
		}
		h.logger.ErrorContext(r.Context(), "failed to get course", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return course, true
}

// Get handles GET /api/v1/courses/{id}.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	course, ok := h.byID(w, r)
	if !ok {
		return
	}
	sendJSON(w, api.CourseResponse{Course: course}, http.StatusOK)
}

// Update handles PUT /api/v1/courses/{id}.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	course, ok := h.byID(w, r)
	if !ok {
		return
	}

	var req api.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		sendError(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.Price < 0 {
		sendError(w, "price must not be negative", http.StatusBadRequest)
		return
	}

	course.Name = req.Name
	course.Days = req.Days
	course.Timing = req.Timing
	course.Duration = req.Duration
	course.Price = req.Price
	course.ModeOfDelivery = req.ModeOfDelivery

	if err := h.courses.UpdateCourse(ctx, course); err != nil {
		if errors.Is(err, storage.ErrCourseNotFound) {
			sendError(w, "course not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update course", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "course updated", slog.String("course_id", course.ID))
	sendJSON(w, api.CourseResponse{
		Message: "course updated",
		Course:  course,
	}, http.StatusOK)
}

// Delete handles DELETE /api/v1/courses/{id}. Courses are deactivated,
// not removed, so enrollment history keeps its names.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.courses.DeactivateCourse(ctx, id); err != nil {
		if errors.Is(err, storage.ErrCourseNotFound) {
			sendError(w, "course not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to deactivate course", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "course deactivated", slog.String("course_id", id))
	sendJSON(w, api.MessageResponse{Message: "course deactivated"}, http.StatusOK)
}
