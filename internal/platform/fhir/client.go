package fhir

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/scribe/scribe/internal/platform/apperror"
)

// PushResult is the document server's acknowledgement of a stored bundle.
type PushResult struct {
	ID           string `json:"id"`
	ResourceType string `json:"resourceType"`
}

// Client pushes exported bundles to an external FHIR document server.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Push POSTs the bundle to the document server and returns its assigned id.
func (c *Client) Push(ctx context.Context, bundle *Bundle) (*PushResult, error) {
	body, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("marshal bundle: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/fhir+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUpstream, err, "document server unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperror.New(apperror.KindUpstream, "document server returned %d: %s", resp.StatusCode, string(msg))
	}

	var result PushResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperror.Wrap(apperror.KindUpstream, err, "decode document server response")
	}
	return &result, nil
}
