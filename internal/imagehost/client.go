// Package imagehost uploads profile pictures to the external image CDN.
// The CDN is an external collaborator: this is transport glue only.
package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client talks to the image host upload endpoint.
type Client struct {
	httpClient *http.Client
	uploadURL  string
	apiKey     string
	folder     string
}

// NewClient creates an upload client. uploadURL and apiKey come from
// configuration; folder namespaces the uploads (e.g. "student_profiles").
func NewClient(uploadURL, apiKey, folder string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		uploadURL:  uploadURL,
		apiKey:     apiKey,
		folder:     folder,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload pushes image data and returns the public URL.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("no image data provided")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("folder", c.folder); err != nil {
		return "", fmt.Errorf("failed to write folder field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if parsed.Error.Message != "" {
			return "", fmt.Errorf("image host rejected upload (%d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("image host rejected upload: status %d", resp.StatusCode)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("image host returned no URL")
	}
	return parsed.SecureURL, nil
}
