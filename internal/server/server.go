// Package server wires storage, token service, handlers and middleware
// into one HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nbaliev/campushub/internal/config"
	"github.com/nbaliev/campushub/internal/email"
	"github.com/nbaliev/campushub/internal/idcard"
	"github.com/nbaliev/campushub/internal/imagehost"
	"github.com/nbaliev/campushub/internal/models"
	"github.com/nbaliev/campushub/internal/server/handlers"
	"github.com/nbaliev/campushub/internal/server/middleware"
	"github.com/nbaliev/campushub/internal/server/storage/sqlite"
	"github.com/nbaliev/campushub/internal/server/token"
)

// Server is the composed HTTP server plus its owned resources.
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	storage    *sqlite.Storage
	cfg        *config.Config
}

// New builds the full server: opens the database, runs migrations and
// assembles the routing table. The caller owns Run and shutdown.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*Server, error) {
	tokens, err := token.New(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	var uploader handlers.PictureUploader
	if cfg.ImageHost.Configured() {
		uploader = imagehost.NewClient(cfg.ImageHost.UploadURL, cfg.ImageHost.APIKey, "student_profiles")
	}

	var mailer handlers.CardMailer
	if cfg.SMTP.Configured() {
		m, err := email.NewMailer(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to create mailer: %w", err)
		}
		mailer = m
	} else {
		logger.Warn("smtp not configured, id card delivery disabled")
	}

	authHandler := handlers.NewAuthHandler(logger, store, store, tokens, cfg.TOTPSkew)
	studentHandler := handlers.NewStudentHandler(logger, store, store, uploader)
	courseHandler := handlers.NewCourseHandler(logger, store)
	cardHandler := handlers.NewIDCardHandler(logger, studentHandler, idcard.NewRenderer(cfg.Institution), mailer)
	healthHandler := handlers.NewHealthHandler(version)

	mux := buildRoutes(logger, tokens, authHandler, studentHandler, courseHandler, cardHandler, healthHandler)

	// Login-shaped endpoints get tight buckets; the rest of the API gets
	// a generous default.
	limits := []middleware.PathRateLimit{
		{Path: "/api/v1/auth/login", Rate: 10, Window: time.Minute},
		{Path: "/api/v1/auth/register", Rate: 10, Window: time.Minute},
		{Path: "/api/v1/auth/login/verify-2fa", Rate: 10, Window: time.Minute},
		{Path: "/api/v1/students/login", Rate: 10, Window: time.Minute},
	}

	var handler http.Handler = mux
	handler = middleware.RateLimit(limits, 300, time.Minute, logger)(handler)
	handler = middleware.Logging(logger, "/api/v1/health")(handler)
	handler = middleware.Recovery(logger)(handler)

	return &Server{
		logger: logger,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		storage: store,
		cfg:     cfg,
	}, nil
}

func buildRoutes(
	logger *slog.Logger,
	tokens *token.Service,
	authHandler *handlers.AuthHandler,
	studentHandler *handlers.StudentHandler,
	courseHandler *handlers.CourseHandler,
	cardHandler *handlers.IDCardHandler,
	healthHandler *handlers.HealthHandler,
) *http.ServeMux {
	mux := http.NewServeMux()

	staff := middleware.RequireRoles(logger, tokens, models.StaffRoles...)
	office := middleware.RequireRoles(logger, tokens, models.RoleAdmin, models.RoleMaintenanceOffice)
	catalog := middleware.RequireRoles(logger, tokens, models.RoleMaintenanceOffice)
	anyAuth := middleware.RequireAuth(logger, tokens)

	handle := func(pattern string, gate func(http.Handler) http.Handler, h http.HandlerFunc) {
		mux.Handle(pattern, gate(h))
	}

	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	// Staff authentication surface.
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/login/verify-2fa", authHandler.VerifyLogin2FA)
	handle("GET /api/v1/auth/profile", staff, authHandler.Profile)
	handle("PUT /api/v1/auth/profile", staff, authHandler.UpdateProfile)
	handle("PUT /api/v1/auth/change-password", staff, authHandler.ChangePassword)
	handle("POST /api/v1/auth/2fa/setup", staff, authHandler.TwoFactorSetup)
	handle("POST /api/v1/auth/2fa/verify", staff, authHandler.TwoFactorVerify)
	handle("POST /api/v1/auth/2fa/disable", staff, authHandler.TwoFactorDisable)
	handle("DELETE /api/v1/auth/account", staff, authHandler.DeleteAccount)

	// Student records: admin and the maintenance office.
	mux.HandleFunc("POST /api/v1/students/login", authHandler.StudentLogin)
	handle("POST /api/v1/students/register", office, studentHandler.Register)
	handle("GET /api/v1/students", office, studentHandler.List)
	handle("GET /api/v1/students/count", office, studentHandler.Count)
	handle("GET /api/v1/students/enrolled", office, studentHandler.Enrolled)
	handle("GET /api/v1/students/export/csv", office, studentHandler.ExportCSV)
	handle("GET /api/v1/students/{id}", office, studentHandler.Get)
	handle("PUT /api/v1/students/{id}", office, studentHandler.Update)
	handle("DELETE /api/v1/students/{id}", office, studentHandler.Delete)
	handle("POST /api/v1/students/{id}/id-card", office, cardHandler.Send)

	// Course catalog: reads for any session, writes for the office only.
	handle("GET /api/v1/courses", anyAuth, courseHandler.List)
	handle("GET /api/v1/courses/count", anyAuth, courseHandler.Count)
	handle("GET /api/v1/courses/{id}", anyAuth, courseHandler.Get)
	handle("POST /api/v1/courses", catalog, courseHandler.Create)
	handle("PUT /api/v1/courses/{id}", catalog, courseHandler.Update)
	handle("DELETE /api/v1/courses/{id}", catalog, courseHandler.Delete)

	return mux
}

// Run serves until ctx is canceled, then drains connections within the
// configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		_ = s.storage.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	err := s.httpServer.Shutdown(shutdownCtx)
	_ = s.storage.Close()
	return err
}
