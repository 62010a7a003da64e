// Package ai calls the external SOAP note-generation service. The service
// accepts a raw transcript and returns the four note sections plus any
// ICD-10 codes it identified.
package ai

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

// SOAPSections are the four parts of a generated clinical note.
type SOAPSections struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

// Result is the note-generation service response.
type Result struct {
	SOAP             SOAPSections `json:"soap"`
	ICD10Codes       []string     `json:"icd10_codes"`
	ProcessingTimeMS float64      `json:"processing_time_ms"`
}

type generateRequest struct {
	Transcript string `json:"transcript"`
}

// Client talks to the note-generation service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client. The timeout bounds each GenerateSOAP call;
// on expiry the call fails and the caller's state is left untouched.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// GenerateSOAP sends the transcript to the service and returns the
// generated note. Failures are reported as upstream errors; the client
// never retries.
func (c *Client) GenerateSOAP(ctx context.Context, transcript string) (*Result, error) {
	body, err := json.Marshal(generateRequest{Transcript: transcript})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai/generate-soap", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUpstream, err, "note generation service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperror.New(apperror.KindUpstream, "note generation service returned %d: %s", resp.StatusCode, string(msg))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperror.Wrap(apperror.KindUpstream, err, "decode note generation response")
	}
	return &result, nil
}
