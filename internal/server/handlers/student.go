package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nbaliev/campushub/internal/auth"
	"github.com/nbaliev/campushub/internal/models"
	"github.com/nbaliev/campushub/internal/server/storage"
	"github.com/nbaliev/campushub/internal/validation"
	"github.com/nbaliev/campushub/pkg/api"
)

// PictureUploader pushes profile pictures to the image host.
type PictureUploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// StudentHandler owns the student record surface: registration, listing,
// counts, updates and deletion. Login lives on AuthHandler.
type StudentHandler struct {
	logger   *slog.Logger
	students storage.StudentStorage
	courses  storage.CourseStorage
	uploader PictureUploader // nil when no image host is configured
}

// NewStudentHandler creates the student handler.
func NewStudentHandler(logger *slog.Logger, students storage.StudentStorage, courses storage.CourseStorage, uploader PictureUploader) *StudentHandler {
	return &StudentHandler{
		logger:   logger,
		students: students,
		courses:  courses,
		uploader: uploader,
	}
}

// validateCourseIDs checks that every requested course exists and is
// active, and returns the enrollment rows to write.
func (h *StudentHandler) validateCourseIDs(ctx context.Context, courseIDs []string) ([]models.Enrollment, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(courseIDs))
	unique := make([]string, 0, len(courseIDs))
	for _, id := range courseIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	courses, err := h.courses.GetCoursesByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(courses) != len(unique) {
		return nil, errUnknownCourse
	}

	now := time.Now()
	enrollments := make([]models.Enrollment, 0, len(courses))
	for _, c := range courses {
		enrollments = append(enrollments, models.Enrollment{
			CourseID:   c.ID,
			CourseName: c.Name,
			Status:     "Active",
			EnrolledAt: now,
		})
	}
	return enrollments, nil
}

var errUnknownCourse = errors.New("one or more selected courses do not exist")

// uploadPicture decodes the base64 payload and stores it on the image
// host, returning the public URL.
func (h *StudentHandler) uploadPicture(ctx context.Context, studentID, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.New("profile_picture_data is not valid base64")
	}
	if h.uploader == nil {
		return "", errors.New("image uploads are not configured")
	}
	return h.uploader.Upload(ctx, studentID+".jpg", data)
}

// Register handles POST /api/v1/students/register. New students start in
// Pending status and cannot log in until the office enrolls them.
func (h *StudentHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.StudentRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(req.Email); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateCNIC(req.CNIC); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		sendError(w, "first_name and last_name are required", http.StatusBadRequest)
		return
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			sendError(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		dob = &parsed
	}

	enrollments, err := h.validateCourseIDs(ctx, req.CourseIDs)
	if err != nil {
		if errors.Is(err, errUnknownCourse) {
			sendError(w, errUnknownCourse.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to validate courses", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	student := &models.Student{
		ID:               uuid.New().String(),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		PasswordHash:     passwordHash,
		CNIC:             req.CNIC,
		PhoneNumber:      req.PhoneNumber,
		DateOfBirth:      dob,
		Gender:           req.Gender,
		Address:          req.Address,
		GuardianName:     req.GuardianName,
		GuardianPhone:    req.GuardianPhone,
		GuardianRelation: req.GuardianRelation,
		Status:           models.StudentPending,
		Enrollments:      enrollments,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if req.ProfilePictureData != "" {
		url, err := h.uploadPicture(ctx, student.ID, req.ProfilePictureData)
		if err != nil {
			h.logger.WarnContext(ctx, "profile picture upload failed", slog.Any("error", err))
			sendError(w, "failed to upload profile picture", http.StatusBadRequest)
			return
		}
		student.ProfilePicture = url
	}

	if err := h.students.CreateStudent(ctx, student); err != nil {
		if errors.Is(err, storage.ErrStudentAlreadyExists) {
			sendError(w, "email or cnic already registered", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create student", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "student registered",
		slog.String("student_id", student.ID),
		slog.String("roll_id", student.RollID))

	sendJSON(w, api.StudentResponse{
		Message: "student registered",
		Student: student,
	}, http.StatusCreated)
}

// List handles GET /api/v1/students with pagination, search, sorting and
// status filtering via query parameters.
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	params := storage.ListStudentsParams{
		Page:      1,
		Limit:     10,
		Search:    q.Get("search"),
		SortField: q.Get("sort_field"),
		SortOrder: q.Get("sort_order"),
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		params.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 && v <= 100 {
		params.Limit = v
	}
	if status := q.Get("status"); status != "" {
		s := models.StudentStatus(status)
		if !models.ValidStudentStatus(s) {
			sendError(w, "unknown status filter", http.StatusBadRequest)
			return
		}
		params.Status = s
	}
	if params.SortField == "" {
		params.SortField = "created_at"
	}
	if params.SortOrder != "asc" {
		params.SortOrder = "desc"
	}

	students, total, err := h.students.ListStudents(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list students", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if students == nil {
		students = []*models.Student{}
	}

	totalPages := (total + params.Limit - 1) / params.Limit
	sendJSON(w, api.StudentListResponse{
		Students:     students,
		TotalPages:   totalPages,
		CurrentPage:  params.Page,
		TotalRecords: total,
		Limit:        params.Limit,
		SortField:    params.SortField,
		SortOrder:    params.SortOrder,
	}, http.StatusOK)
}

// Count handles GET /api/v1/students/count, the dashboard breakdown.
func (h *StudentHandler) Count(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.students.CountStudentsByStatus(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count students", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.StudentCountResponse{
		Pending:   counts[models.StudentPending],
		Enrolled:  counts[models.StudentEnrolled],
		Suspended: counts[models.StudentSuspended],
		Withdrawn: counts[models.StudentWithdrawn],
	}
	resp.Total = resp.Pending + resp.Enrolled + resp.Suspended + resp.Withdrawn
	sendJSON(w, resp, http.StatusOK)
}

// Enrolled handles GET /api/v1/students/enrolled. With ?count=true it
// returns only the number of enrolled students; otherwise the records.
func (h *StudentHandler) Enrolled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.URL.Query().Get("count") == "true" {
		counts, err := h.students.CountStudentsByStatus(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to count students", slog.Any("error", err))
			sendError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		sendJSON(w, api.EnrolledCountResponse{Count: counts[models.StudentEnrolled]}, http.StatusOK)
		return
	}

	students, total, err := h.students.ListStudents(ctx, storage.ListStudentsParams{
		Page:   1,
		Limit:  1000,
		Status: models.StudentEnrolled,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list enrolled students", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if students == nil {
		students = []*models.Student{}
	}
	sendJSON(w, api.StudentListResponse{
		Students:     students,
		TotalPages:   1,
		CurrentPage:  1,
		TotalRecords: total,
		Limit:        total,
		SortField:    "created_at",
		SortOrder:    "desc",
	}, http.StatusOK)
}

// byID loads the student addressed by the {id} path segment.
func (h *StudentHandler) byID(w http.ResponseWriter, r *http.Request) (*models.Student, bool) {
	student, err := h.students.GetStudentByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrStudentNotFound) {
			sendError(w, "student not found", http.StatusNotFound)
			return nil, false
		}
		h.logger.ErrorContext(r.Context(), "failed to get student", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return student, true
}

// Get handles GET /api/v1/students/{id}.
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	student, ok := h.byID(w, r)
	if !ok {
		return
	}
	sendJSON(w, api.StudentResponse{Student: student}, http.StatusOK)
}

// Update handles PUT /api/v1/students/{id}. The request rewrites the
// record; enrollments are replaced with the submitted course set.
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	student, ok := h.byID(w, r)
	if !ok {
		return
	}

	var req api.StudentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(req.Email); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		sendError(w, "first_name and last_name are required", http.StatusBadRequest)
		return
	}
	if req.Status != "" && !models.ValidStudentStatus(req.Status) {
		sendError(w, "unknown status value", http.StatusBadRequest)
		return
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			sendError(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		dob = &parsed
	}

	enrollments, err := h.validateCourseIDs(ctx, req.CourseIDs)
	if err != nil {
		if errors.Is(err, errUnknownCourse) {
			sendError(w, errUnknownCourse.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to validate courses", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Email = req.Email
	student.PhoneNumber = req.PhoneNumber
	student.DateOfBirth = dob
	student.Gender = req.Gender
	student.Address = req.Address
	student.GuardianName = req.GuardianName
	student.GuardianPhone = req.GuardianPhone
	student.GuardianRelation = req.GuardianRelation
	student.Enrollments = enrollments
	if req.Status != "" {
		student.Status = req.Status
	}

	if req.ProfilePictureData != "" {
		url, err := h.uploadPicture(ctx, student.ID, req.ProfilePictureData)
		if err != nil {
			h.logger.WarnContext(ctx, "profile picture upload failed", slog.Any("error", err))
			sendError(w, "failed to upload profile picture", http.StatusBadRequest)
			return
		}
		student.ProfilePicture = url
	}

	if err := h.students.UpdateStudent(ctx, student); err != nil {
		switch {
		case errors.Is(err, storage.ErrStudentAlreadyExists):
			sendError(w, "email or cnic already registered", http.StatusConflict)
		case errors.Is(err, storage.ErrStudentNotFound):
			sendError(w, "student not found", http.StatusNotFound)
		default:
			h.logger.ErrorContext(ctx, "failed to update student", slog.Any("error", err))
			sendError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "student updated", slog.String("student_id", student.ID))
	sendJSON(w, api.StudentResponse{
		Message: "student updated",
		Student: student,
	}, http.StatusOK)
}

// Delete handles DELETE /api/v1/students/{id}.
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.students.DeleteStudent(ctx, id); err != nil {
		if errors.Is(err, storage.ErrStudentNotFound) {
			sendError(w, "student not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete student", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "student deleted", slog.String("student_id", id))
	w.WriteHeader(http.StatusNoContent)
}
