package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Client talks to the AssemblyAI v2 REST API.
// It never retries: every failure is returned to the caller as-is.
type Client struct {
	config     *Config
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new AssemblyAI client with the given configuration
//
// Example:
//
//	client, err := assemblyai.NewClient(&assemblyai.Config{
//		APIKey: os.Getenv("ASSEMBLYAI_API_KEY"),
//		APIURL: "https://api.assemblyai.com/v2",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Client{
		config:  config,
		baseURL: strings.TrimRight(config.APIURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Upload streams body to POST /upload and returns the upload_url the
// service assigned to the bytes
func (c *Client) Upload(ctx context.Context, body io.Reader) (string, error) {
	var resp uploadResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/upload", body, "application/octet-stream", &resp); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	if resp.UploadURL == "" {
		return "", fmt.Errorf("upload failed: response has no upload_url")
	}
	return resp.UploadURL, nil
}

// Submit creates a transcript job and returns its id
func (c *Client) Submit(ctx context.Context, request TranscriptRequest) (string, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var transcript Transcript
	if err := c.makeRequest(ctx, http.MethodPost, "/transcript", bytes.NewReader(payload), "application/json", &transcript); err != nil {
		return "", fmt.Errorf("submit failed: %w", err)
	}
	if transcript.ID == "" {
		return "", fmt.Errorf("submit failed: response has no id")
	}
	return transcript.ID, nil
}

// Transcript fetches the current state of a transcript job
func (c *Client) Transcript(ctx context.Context, id string) (*Transcript, error) {
	var transcript Transcript
	path := "/transcript/" + url.PathEscape(id)
	if err := c.makeRequest(ctx, http.MethodGet, path, nil, "", &transcript); err != nil {
		return nil, fmt.Errorf("fetching transcript %s failed: %w", id, err)
	}
	if transcript.Status == "" {
		return nil, fmt.Errorf("fetching transcript %s failed: response has no status", id)
	}
	return &transcript, nil
}

// makeRequest sends one request and decodes a 2xx JSON body into out
func (c *Client) makeRequest(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.config.GetHeaders() {
		req.Header.Set(key, value)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return fmt.Errorf("request timed out: %w", err)
		}
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(responseBody),
		}
	}

	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// errorMessage prefers the service's {"error": "..."} field over the raw body
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}
