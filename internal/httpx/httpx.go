// Package httpx is a thin wrapper around net/http for the handful of plain
// requests this program makes outside the Cloudflare SDK.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	hc *http.Client
}

func New(timeout time.Duration) *Client {
	return &Client{hc: &http.Client{Timeout: timeout}}
}

// StatusError is returned for any non-2xx response. It counts as a
// transport failure; there are no retries.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %s", e.URL, e.Status)
}

// ContentTypeError reports a response whose declared content type did not
// match the JSON expectation.
type ContentTypeError struct {
	ContentType string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("expected a JSON response, got content type %q", e.ContentType)
}

// JSON issues a request and decodes the JSON body into out. The response
// must declare a JSON media type.
func (c *Client) JSON(ctx context.Context, method, url string, out any) error {
	resp, err := c.do(ctx, method, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !isJSONMediaType(mediaType) {
		return &ContentTypeError{ContentType: resp.Header.Get("Content-Type")}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding JSON response from %s: %w", url, err)
	}
	return nil
}

// Text issues a request and returns the whitespace-trimmed body.
func (c *Client) Text(ctx context.Context, method, url string) (string, error) {
	resp, err := c.do(ctx, method, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response from %s: %w", url, err)
	}
	return strings.TrimSpace(string(body)), nil
}

func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, URL: url}
	}
	return resp, nil
}

func isJSONMediaType(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
