// Package tracker talks to the external export tracker: the document provider
// that owns remote sets and the AI engine that compares documents.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"doccompare/internal/config"
	"doccompare/internal/domain"
	"doccompare/internal/port"
)

const (
	listDocumentsPath = "/api/document-comparison/list-documents"
	setDetailsPath    = "/api/quotation-details/"
	analyzePath       = "/api/document-comparison/analyze"
)

var (
	_ port.DocumentProvider = (*Client)(nil)
	_ port.AnalysisEngine   = (*Client)(nil)
)

// Client implements port.DocumentProvider and port.AnalysisEngine over HTTP.
type Client struct {
	providerURL string
	engineURL   string
	apiKey      string
	client      *http.Client
}

// NewClient creates a tracker client from config.
func NewClient(cfg *config.TrackerConfig) *Client {
	timeout := cfg.Timeout()
	if timeout == 0 {
		timeout = 300 * time.Second
	}
	return &Client{
		providerURL: cfg.ProviderURL,
		engineURL:   cfg.EngineURL,
		apiKey:      cfg.APIKey,
		client:      &http.Client{Timeout: timeout},
	}
}

// EngineError is a non-success answer from the analysis engine.
type EngineError struct {
	StatusCode int
	Message    string
}

func (e *EngineError) Error() string { return e.Message }

func (e *EngineError) Unwrap() error { return domain.ErrAnalysisFailed }

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

// do executes req and returns the status code and full body.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// errorField extracts the "error" string from a JSON error body, if any.
func errorField(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error
}
