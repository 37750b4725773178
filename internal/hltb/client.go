package hltb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"backlog/internal/services"
)

const defaultHTTPTimeout = 10 * time.Second

// Candidate is a single fuzzy match returned by the provider.
type Candidate struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Similarity     float64 `json:"similarity"`
	ReleaseYear    int     `json:"release_year"`
	MainStoryHours float64 `json:"main_story_hours"`
	// Score is the community score (0-100); null when the provider has no
	// rating for the entry.
	Score *int `json:"score"`
}

// Response models the provider search payload.
type Response struct {
	Results []Candidate `json:"results"`
}

// Searcher defines the search operation the match resolver needs.
type Searcher interface {
	Search(ctx context.Context, title string) ([]Candidate, error)
}

// Client provides access to the completion-time provider search API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a provider client.
func New(baseURL, userAgent string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("hltb base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  strings.TrimSpace(userAgent),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type searchRequest struct {
	Terms string `json:"terms"`
}

// Search queries the provider for candidates matching the supplied title.
func (c *Client) Search(ctx context.Context, title string) ([]Candidate, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title must not be empty")
	}

	encoded, err := json.Marshal(searchRequest{Terms: title})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/search", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if requestID, ok := services.RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", requestID)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hltb search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode hltb response: %w", err)
	}
	return payload.Results, nil
}
