package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// UploadResult is the decoded body of an /upload response.
type UploadResult struct {
	StatusCode  int
	Message     string `json:"message"`
	CandidateID string `json:"candidate_id"`
	Error       string `json:"error"`
}

// OK reports whether the server stored the candidate.
func (r *UploadResult) OK() bool {
	return r.StatusCode == http.StatusOK
}

// UploadFile posts the file at path to /upload as multipart field "file".
// An empty tenantID leaves the server default in place.
func (c *Client) UploadFile(ctx context.Context, path, tenantID string) (*UploadResult, error) {
	target, err := url.JoinPath(c.baseURL, "upload")
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if tenantID != "" {
		target += "?" + url.Values{"tenant_id": {tenantID}}.Encode()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// stream the body so large files are not buffered in memory
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result := &UploadResult{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return result, nil
}

// Health checks that the server answers /health with 200.
func (c *Client) Health(ctx context.Context) error {
	target, err := url.JoinPath(c.baseURL, "health")
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: %s", resp.Status)
	}
	return nil
}
