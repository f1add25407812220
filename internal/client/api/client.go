// Package api is the HTTP client adminctl uses to talk to the server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nbaliev/campushub/pkg/api"
)

// Client talks to one server instance.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an API client for baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Carry the bearer token across redirects.
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Register creates a staff account.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login authenticates a staff account. The response may carry a
// pending-2FA token; callers must check Requires2FA.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// VerifyLogin2FA exchanges a pending token plus a TOTP code for a full
// session token.
func (c *Client) VerifyLogin2FA(ctx context.Context, req api.Verify2FARequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login/verify-2fa", "", req, &resp); err != nil {
		return nil, fmt.Errorf("2fa verification failed: %w", err)
	}
	return &resp, nil
}

// Profile fetches the authenticated staff profile.
func (c *Client) Profile(ctx context.Context, token string) (*api.ProfileResponse, error) {
	var resp api.ProfileResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/auth/profile", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &resp, nil
}

// ListStudentsQuery narrows the student listing.
type ListStudentsQuery struct {
	Page   int
	Limit  int
	Search string
	Status string
}

// ListStudents fetches one page of the student roster.
func (c *Client) ListStudents(ctx context.Context, token string, q ListStudentsQuery) (*api.StudentListResponse, error) {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}

	path := "/api/v1/students"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	var resp api.StudentListResponse
	if err := c.doRequest(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, fmt.Errorf("list students request failed: %w", err)
	}
	return &resp, nil
}

// StudentCount fetches the status breakdown.
func (c *Client) StudentCount(ctx context.Context, token string) (*api.StudentCountResponse, error) {
	var resp api.StudentCountResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/students/count", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("student count request failed: %w", err)
	}
	return &resp, nil
}

// ExportCSV downloads the full roster as CSV bytes.
func (c *Client) ExportCSV(ctx context.Context, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/students/export/csv", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("export request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body)
	}
	return body, nil
}

// doRequest executes one JSON round trip.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func apiError(status int, body []byte) error {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return fmt.Errorf("server error (%d): %s", status, errResp.Message)
	}
	return fmt.Errorf("request failed with status %d: %s", status, string(body))
}
