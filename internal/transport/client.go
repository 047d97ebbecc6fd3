package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/persoforge/persofeed/internal/domain/generation"
)

// Client opens generation streams over HTTP. The underlying client
// carries no timeout: a stalled stream stalls the consumer until the
// transport itself errors or the context is canceled.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for the generation endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{},
	}
}

// Open submits the payload and returns the streamed response body.
// Non-2xx responses are drained and surfaced as a StatusError carrying
// the body as diagnostic text.
func (c *Client) Open(ctx context.Context, payload generation.Payload) (io.ReadCloser, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit generation: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(detail)),
		}
	}
	return resp.Body, nil
}

// StatusError reports a non-success response from the generation
// endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("generation endpoint returned status %d", e.Code)
	}
	return fmt.Sprintf("generation endpoint returned status %d: %s", e.Code, e.Body)
}

var _ generation.StreamOpener = (*Client)(nil)
