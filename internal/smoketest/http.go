package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Submit posts name and photo to /result as a multipart form.
func (c *HTTPClient) Submit(ctx context.Context, name string, photo []byte) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("name", name); err != nil {
		return err
	}
	fw, err := mw.CreateFormFile("photo", name+".png")
	if err != nil {
		return err
	}
	if _, err := fw.Write(photo); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/result", &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	data, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("submit %q: status %d: %s", name, resp.StatusCode, bytes.TrimSpace(data))
	}
	return nil
}

// Board fetches the JSON leaderboard for category.
func (c *HTTPClient) Board(ctx context.Context, category string, limit int) ([]boardEntry, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("limit", strconv.Itoa(limit))

	resp, err := c.Get(ctx, "/api/leaderboard?"+q.Encode())
	if err != nil {
		return nil, err
	}
	data, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leaderboard %q: status %d", category, resp.StatusCode)
	}
	var board boardResponse
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("leaderboard %q: %w", category, err)
	}
	return board.Entries, nil
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}
