package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nbaliev/campushub/internal/auth"
	"github.com/nbaliev/campushub/internal/models"
	"github.com/nbaliev/campushub/internal/server/storage"
	"github.com/nbaliev/campushub/internal/server/token"
	"github.com/nbaliev/campushub/internal/validation"
	"github.com/nbaliev/campushub/pkg/api"
)

// AuthHandler owns every authentication flow: staff registration and
// login, student login, two-factor lifecycle, profile and password
// management, account deletion. Staff and students share one login path
// through models.Credential.
type AuthHandler struct {
	logger   *slog.Logger
	users    storage.UserStorage
	students storage.StudentStorage
	tokens   *token.Service
	totpSkew uint
}

// NewAuthHandler creates the authentication handler. totpSkew is the
// accepted window in 30-second steps either side of now.
func NewAuthHandler(logger *slog.Logger, users storage.UserStorage, students storage.StudentStorage, tokens *token.Service, totpSkew uint) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		users:    users,
		students: students,
		tokens:   tokens,
		totpSkew: totpSkew,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
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
	if !req.Role.Valid() {
		sendError(w, "role must be one of admin, instructor, maintenance_office", http.StatusBadRequest)
		return
	}

	// Hash before first persist. A hashing failure aborts the write.
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		CNIC:         req.CNIC,
		PhoneNumber:  req.PhoneNumber,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			sendError(w, "email or cnic already registered", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "staff account registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)))

	signed, expiresIn, err := h.tokens.IssueFull(user.ID, user.Role)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(w, api.TokenResponse{
		Token:     signed,
		ExpiresIn: expiresIn,
		Role:      user.Role,
	}, http.StatusCreated)
}

// Login handles POST /api/v1/auth/login for staff accounts.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = validation.NormalizeEmail(req.Email)
	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Same answer as a wrong password: no account enumeration.
			sendError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.completeLogin(ctx, w, req.Password, user.Credential(), func() {
		if err := h.users.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
			h.logger.WarnContext(ctx, "failed to update last login", slog.Any("error", err))
		}
	})
}

// StudentLogin handles POST /api/v1/students/login.
func (h *AuthHandler) StudentLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = validation.NormalizeEmail(req.Email)
	student, err := h.students.GetStudentByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrStudentNotFound) {
			sendError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get student", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Password first, account state second: a wrong password on a locked
	// account must look identical to a wrong password anywhere else.
	if !auth.VerifyPassword(req.Password, student.PasswordHash) {
		sendError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if !student.CanAccessAccount() {
		sendError(w, "account is not active, please contact the administration", http.StatusForbidden)
		return
	}

	h.completeLogin(ctx, w, "", student.Credential(), nil)
}

// completeLogin finishes a password-verified login: either a full session
// token, or the pending-2FA token when the account has two-factor active.
// password is re-checked here unless the caller already verified it
// (students pass "" after their own check).
func (h *AuthHandler) completeLogin(ctx context.Context, w http.ResponseWriter, password string, cred models.Credential, onSuccess func()) {
	if password != "" && !auth.VerifyPassword(password, cred.PasswordHash) {
		sendError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if cred.TOTPEnabled {
		signed, expiresIn, err := h.tokens.IssuePending(cred.ID, cred.Role)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to issue pending token", slog.Any("error", err))
			sendError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		sendJSON(w, api.TokenResponse{
			Token:       signed,
			ExpiresIn:   expiresIn,
			Role:        cred.Role,
			Requires2FA: true,
		}, http.StatusOK)
		return
	}

	signed, expiresIn, err := h.tokens.IssueFull(cred.ID, cred.Role)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if onSuccess != nil {
		onSuccess()
	}

	h.logger.InfoContext(ctx, "login successful",
		slog.String("subject", cred.ID),
		slog.String("role", string(cred.Role)))

	sendJSON(w, api.TokenResponse{
		Token:     signed,
		ExpiresIn: expiresIn,
		Role:      cred.Role,
	}, http.StatusOK)
}

// credentialByClaims loads the stored credential for a verified token,
// staff or student.
func (h *AuthHandler) credentialByClaims(ctx context.Context, claims *token.Claims) (models.Credential, error) {
	if claims.Role == models.RoleStudent {
		student, err := h.students.GetStudentByID(ctx, claims.Subject)
		if err != nil {
			return models.Credential{}, err
		}
		return student.Credential(), nil
	}
	user, err := h.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return models.Credential{}, err
	}
	return user.Credential(), nil
}

// VerifyLogin2FA handles POST /api/v1/auth/login/verify-2fa. The pending
// token arrives in the body; it is the only endpoint that honors one.
func (h *AuthHandler) VerifyLogin2FA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.Verify2FARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	claims, err := h.tokens.VerifyPending(req.Token)
	if err != nil {
		sendError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	cred, err := h.credentialByClaims(ctx, claims)
	if err != nil {
		h.logger.WarnContext(ctx, "pending token subject not found", slog.Any("error", err))
		sendError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if !cred.TOTPEnabled {
		sendError(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if cred.TOTPSecret == "" {
		// Enabled without a secret breaks the setup invariant.
		h.logger.ErrorContext(ctx, "two-factor enabled but secret missing",
			slog.String("subject", cred.ID))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !auth.VerifyTOTPCode(cred.TOTPSecret, req.Code, h.totpSkew) {
		sendError(w, "invalid verification code", http.StatusUnauthorized)
		return
	}

	signed, expiresIn, err := h.tokens.IssueFull(cred.ID, cred.Role)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "two-factor login completed", slog.String("subject", cred.ID))

	sendJSON(w, api.TokenResponse{
		Token:     signed,
		ExpiresIn: expiresIn,
		Role:      cred.Role,
	}, http.StatusOK)
}

// currentUser loads the staff account behind the request identity.
func (h *AuthHandler) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	identity, ok := GetIdentity(r.Context())
	if !ok {
		sendError(w, "authentication required", http.StatusUnauthorized)
		return nil, false
	}
	user, err := h.users.GetUserByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Token outlived the account.
			sendError(w, "invalid token", http.StatusUnauthorized)
			return nil, false
		}
		h.logger.ErrorContext(r.Context(), "failed to get user", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return user, true
}

// Profile handles GET /api/v1/auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	sendJSON(w, api.ProfileResponse{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		CNIC:        user.CNIC,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
		TOTPEnabled: user.TOTPEnabled,
		CreatedAt:   user.CreatedAt,
		LastLogin:   user.LastLogin,
	}, http.StatusOK)
}

// UpdateProfile handles PUT /api/v1/auth/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req api.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		sendError(w, "first_name and last_name are required", http.StatusBadRequest)
		return
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.PhoneNumber = req.PhoneNumber

	if err := h.users.UpdateProfile(r.Context(), user); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to update profile", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	sendJSON(w, api.MessageResponse{Message: "profile updated"}, http.StatusOK)
}

// ChangePassword handles PUT /api/v1/auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req api.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !auth.VerifyPassword(req.CurrentPassword, user.PasswordHash) {
		sendError(w, "current password is incorrect", http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to hash password", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), user.ID, newHash); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to update password", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(r.Context(), "password changed", slog.String("user_id", user.ID))
	sendJSON(w, api.MessageResponse{Message: "password changed"}, http.StatusOK)
}

// TwoFactorSetup handles POST /api/v1/auth/2fa/setup. A fresh secret is
// generated and stored disabled; re-running setup replaces any previous
// secret. Enforcement only starts after TwoFactorVerify.
func (h *AuthHandler) TwoFactorSetup(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	setup, err := auth.GenerateTOTPSecret(user.Email)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to generate totp secret", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Single statement write: concurrent setups end last-writer-wins,
	// never half-written.
	if err := h.users.UpdateTwoFactor(r.Context(), user.ID, setup.Secret, false); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to store totp secret", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(w, api.TwoFactorSetupResponse{
		Secret: setup.Secret,
		URL:    setup.URL,
	}, http.StatusOK)
}

// TwoFactorVerify handles POST /api/v1/auth/2fa/verify: one valid code
// proves possession and activates enforcement.
func (h *AuthHandler) TwoFactorVerify(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req api.TwoFactorVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if user.TOTPSecret == "" {
		sendError(w, "two-factor setup has not been started", http.StatusBadRequest)
		return
	}
	if !auth.VerifyTOTPCode(user.TOTPSecret, req.Code, h.totpSkew) {
		sendError(w, "invalid verification code", http.StatusBadRequest)
		return
	}

	if err := h.users.UpdateTwoFactor(r.Context(), user.ID, user.TOTPSecret, true); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to enable two-factor", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(r.Context(), "two-factor enabled", slog.String("user_id", user.ID))
	sendJSON(w, api.MessageResponse{Message: "two-factor authentication enabled"}, http.StatusOK)
}

// TwoFactorDisable handles POST /api/v1/auth/2fa/disable. Requires the
// current password; a wrong password leaves the secret untouched.
func (h *AuthHandler) TwoFactorDisable(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req api.TwoFactorDisableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		sendError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := h.users.UpdateTwoFactor(r.Context(), user.ID, "", false); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to disable two-factor", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(r.Context(), "two-factor disabled", slog.String("user_id", user.ID))
	sendJSON(w, api.MessageResponse{Message: "two-factor authentication disabled"}, http.StatusOK)
}

// DeleteAccount handles DELETE /api/v1/auth/account.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req api.DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		sendError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := h.users.DeleteUser(r.Context(), user.ID); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to delete account", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(r.Context(), "account deleted", slog.String("user_id", user.ID))
	w.WriteHeader(http.StatusNoContent)
}
