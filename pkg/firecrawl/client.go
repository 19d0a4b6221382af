// Package firecrawl wraps the Firecrawl scraping API behind the two fetch
// modes the run driver needs. The backend is opaque: retries, rate limiting
// and link discovery are its concern, this client makes a single attempt per
// call and translates every per-page failure into a PageResult instead of an
// error. Only credential rejection escapes as an error, because nothing can
// succeed after it.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tlegoff/municrawl/models"
)

const (
	// DefaultBaseURL is the hosted Firecrawl endpoint.
	DefaultBaseURL = "https://api.firecrawl.dev"
	// DefaultWaitFor is the per-page dynamic-content delay in milliseconds.
	DefaultWaitFor = 2000

	defaultTimeout      = 2 * time.Minute
	defaultPollInterval = 3 * time.Second
)

// AuthError reports a rejected credential. It aborts the whole run: every
// subsequent fetch would fail the same way.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("authentication failed (status %d): %s", e.StatusCode, e.Message)
}

// Client is a single-attempt wrapper around the Firecrawl HTTP API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	waitFor      int
	pollInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used for self-hosted backends and
// tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithWaitFor sets the dynamic-content delay in milliseconds.
func WithWaitFor(ms int) Option {
	return func(c *Client) { c.waitFor = ms }
}

// WithPollInterval sets how often crawl jobs are polled for completion.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// NewClient creates a client for the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: defaultTimeout},
		baseURL:      DefaultBaseURL,
		apiKey:       apiKey,
		waitFor:      DefaultWaitFor,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) defaultScrapeOptions() scrapeOptions {
	return scrapeOptions{
		Formats:         []string{"markdown", "html"},
		OnlyMainContent: true,
		IncludeTags:     []string{"article", "main", "div.content"},
		ExcludeTags:     []string{"nav", "footer", "header", "aside"},
		WaitFor:         c.waitFor,
	}
}

// Scrape fetches exactly the seed URL of a source. It always returns one
// PageResult; backend failures are encoded in it rather than returned. The
// error return is reserved for fatal conditions (credential rejection,
// context cancellation).
func (c *Client) Scrape(ctx context.Context, source models.DataSource) (models.PageResult, error) {
	req := scrapeRequest{URL: source.URL, scrapeOptions: c.defaultScrapeOptions()}

	var resp scrapeResponse
	if err := c.post(ctx, "/v1/scrape", req, &resp); err != nil {
		if isFatal(err) {
			return models.PageResult{}, err
		}
		return failedResult(source, source.URL, err.Error()), nil
	}
	if !resp.Success {
		return failedResult(source, source.URL, backendError(resp.Error)), nil
	}
	return pageResult(source, source.URL, resp.Data), nil
}

// Crawl fetches the seed URL plus same-site pages discovered by the backend,
// up to maxPages total. The backend call is asynchronous: a crawl job is
// started and polled until completion. A short result set is not an error;
// the caller decides what an empty one means.
func (c *Client) Crawl(ctx context.Context, source models.DataSource, maxPages int) ([]models.PageResult, error) {
	req := crawlRequest{
		URL:   source.URL,
		Limit: maxPages,
		ScrapeOptions: scrapeOptions{
			Formats: []string{"markdown", "html"},
			WaitFor: c.waitFor,
		},
	}

	var start crawlStartResponse
	if err := c.post(ctx, "/v1/crawl", req, &start); err != nil {
		if isFatal(err) {
			return nil, err
		}
		return []models.PageResult{failedResult(source, source.URL, err.Error())}, nil
	}
	if !start.Success || start.ID == "" {
		return []models.PageResult{failedResult(source, source.URL, backendError(start.Error))}, nil
	}

	status, err := c.waitForCrawl(ctx, start.ID)
	if err != nil {
		if isFatal(err) {
			return nil, err
		}
		return []models.PageResult{failedResult(source, source.URL, err.Error())}, nil
	}

	pages := status.Data
	if len(pages) > maxPages {
		pages = pages[:maxPages]
	}
	results := make([]models.PageResult, 0, len(pages))
	for _, p := range pages {
		pageURL := p.Metadata.SourceURL
		if pageURL == "" {
			pageURL = source.URL
		}
		results = append(results, pageResult(source, pageURL, p))
	}
	return results, nil
}

// waitForCrawl polls the crawl job until it reports a terminal status.
func (c *Client) waitForCrawl(ctx context.Context, id string) (*crawlStatusResponse, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var status crawlStatusResponse
		if err := c.get(ctx, "/v1/crawl/"+id, &status); err != nil {
			return nil, err
		}
		switch status.Status {
		case "completed":
			return &status, nil
		case "failed", "cancelled":
			return nil, fmt.Errorf("crawl job %s %s: %s", id, status.Status, backendError(status.Error))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusPaymentRequired, http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode, Message: apiErrorMessage(bodyBytes)}
	}
	if resp.StatusCode != http.StatusOK {
		msg := apiErrorMessage(bodyBytes)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, msg)
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// apiErrorMessage pulls the error field out of an API error body, if any.
func apiErrorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error
}

// isFatal reports whether an error must abort the run instead of becoming a
// failed PageResult.
func isFatal(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

func backendError(msg string) string {
	if msg == "" {
		return "backend reported failure without detail"
	}
	return msg
}

func failedResult(source models.DataSource, url, errMsg string) models.PageResult {
	return models.PageResult{
		URL: url,
		Metadata: models.PageMetadata{
			SourceMethod: source.Method,
			FetchedAt:    time.Now(),
		},
		Success: false,
		Error:   errMsg,
	}
}

func pageResult(source models.DataSource, url string, data pageData) models.PageResult {
	return models.PageResult{
		URL:      url,
		Markdown: data.Markdown,
		HTML:     data.HTML,
		Metadata: models.PageMetadata{
			Title:        data.Metadata.Title,
			Description:  data.Metadata.Description,
			Language:     data.Metadata.Language,
			SourceURL:    data.Metadata.SourceURL,
			SourceMethod: source.Method,
			StatusCode:   data.Metadata.StatusCode,
			FetchedAt:    time.Now(),
		},
		Success: true,
	}
}
