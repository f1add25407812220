package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbaliev/campushub/internal/models"
	"github.com/nbaliev/campushub/pkg/api"
)

func TestLogin(t *testing.T) {
	var gotBody api.LoginRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.TokenResponse{
			Token: "full-token", ExpiresIn: 86400, Role: models.RoleAdmin,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Login(context.Background(), api.LoginRequest{Email: "ada@example.com", Password: "pass123"})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", gotBody.Email)
	assert.Equal(t, "full-token", resp.Token)
	assert.Equal(t, models.RoleAdmin, resp.Role)
	assert.False(t, resp.Requires2FA)
}

func TestLogin_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{
			Error: http.StatusText(http.StatusUnauthorized), Message: "invalid credentials",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Login(context.Background(), api.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error (401): invalid credentials")
}

func TestVerifyLogin2FA(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login/verify-2fa", r.URL.Path)
		var req api.Verify2FARequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pending-token", req.Token)
		assert.Equal(t, "123456", req.Code)

		_ = json.NewEncoder(w).Encode(api.TokenResponse{Token: "full-token", ExpiresIn: 86400})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.VerifyLogin2FA(context.Background(), api.Verify2FARequest{Token: "pending-token", Code: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "full-token", resp.Token)
}

func TestProfile_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer my-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(api.ProfileResponse{
			ID: "user-1", Email: "ada@example.com", Role: models.RoleAdmin,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	profile, err := c.Profile(context.Background(), "my-token")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", profile.Email)
}

func TestListStudents_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/students", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "khan", r.URL.Query().Get("search"))
		assert.Equal(t, "Enrolled", r.URL.Query().Get("status"))

		_ = json.NewEncoder(w).Encode(api.StudentListResponse{
			Students:    []*models.Student{{ID: "s1", RollID: "STU-00001"}},
			CurrentPage: 2, TotalPages: 3, TotalRecords: 55, Limit: 25,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.ListStudents(context.Background(), "tok", ListStudentsQuery{
		Page: 2, Limit: 25, Search: "khan", Status: "Enrolled",
	})
	require.NoError(t, err)
	require.Len(t, resp.Students, 1)
	assert.Equal(t, "STU-00001", resp.Students[0].RollID)
	assert.Equal(t, 55, resp.TotalRecords)
}

func TestStudentCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/students/count", r.URL.Path)
		_ = json.NewEncoder(w).Encode(api.StudentCountResponse{Total: 10, Pending: 4, Enrolled: 6})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.StudentCount(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Total)
	assert.Equal(t, 6, resp.Enrolled)
}

func TestExportCSV(t *testing.T) {
	csv := "Roll ID,First Name\r\nSTU-00001,Sam\r\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/students/export/csv", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(csv))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	data, err := c.ExportCSV(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, csv, string(data))
}

func TestExportCSV_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Message: "authentication required"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.ExportCSV(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication required")
}

func TestRedirectCarriesAuthorization(t *testing.T) {
	var finalAuth string
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		finalAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(api.ProfileResponse{Email: "ada@example.com"})
	}))
	defer final.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL+"/api/v1/auth/profile", http.StatusTemporaryRedirect)
	}))
	defer redirecting.Close()

	c := NewClient(redirecting.URL)
	_, err := c.Profile(context.Background(), "my-token")
	require.NoError(t, err)
	assert.Equal(t, "Bearer my-token", finalAuth)
}
