// Package fingerprint provides a rate-limited client for the external
// semantic fingerprinting service.
//
// The service maps text to a fingerprint (a set of discrete position indices
// in a fixed conceptual space) and to a ranked list of semantically related
// terms. The embedding algorithm is opaque to this client; it treats the
// service as authoritative.
package fingerprint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the default fingerprint service endpoint.
	DefaultBaseURL = "https://api.cortical.io/rest"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultRateLimit is one request per second. The free service tier
	// enforces a per-second quota, so calls are spaced out client-side
	// rather than retried after 429s.
	DefaultRateLimit = 1.0

	// apiPathFingerprint is the endpoint mapping text to fingerprint positions.
	apiPathFingerprint = "/text/fingerprint"

	// apiPathSimilarTerms is the endpoint mapping text to related terms.
	apiPathSimilarTerms = "/text/similar-terms"

	// apiKeyEnvVar is the environment variable holding the service API key.
	apiKeyEnvVar = "JFP_API_KEY"
)

// Client is a rate-limited HTTP client for the fingerprint service.
// Calls are issued strictly one at a time; the limiter blocks before every
// request so consecutive calls respect the service quota.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL sets a custom service base URL.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the sustained request rate in requests per second.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewClient creates a new fingerprint service client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    DefaultBaseURL,
	}

	if key := os.Getenv(apiKeyEnvVar); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// textRequest is the request body shared by both service operations.
type textRequest struct {
	Text string `json:"text"`
}

// fingerprintResponse is the response from the fingerprint endpoint.
// Positions is a pointer so an omitted field is distinguishable from an
// empty fingerprint.
type fingerprintResponse struct {
	Positions *[]int `json:"positions"`
}

// similarTermsResponse is the response from the similar-terms endpoint.
type similarTermsResponse struct {
	Terms *[]string `json:"terms"`
}

// Fingerprint maps aggregated text to its fingerprint position set.
// The returned slice is deduplicated and sorted.
func (c *Client) Fingerprint(ctx context.Context, text string) ([]int, error) {
	body, err := c.post(ctx, apiPathFingerprint, text)
	if err != nil {
		return nil, err
	}

	var result fingerprintResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if result.Positions == nil {
		return nil, fmt.Errorf("%w: missing positions field", ErrInvalidResponse)
	}

	return canonicalPositions(*result.Positions), nil
}

// SimilarTerms maps aggregated text to the service's ranked related-term
// list. Order is preserved; duplicates differing only by inflection are the
// normalizer's concern, not the client's.
func (c *Client) SimilarTerms(ctx context.Context, text string) ([]string, error) {
	body, err := c.post(ctx, apiPathSimilarTerms, text)
	if err != nil {
		return nil, err
	}

	var result similarTermsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if result.Terms == nil {
		return nil, fmt.Errorf("%w: missing terms field", ErrInvalidResponse)
	}

	return *result.Terms, nil
}

// post waits for the rate limiter, then issues a JSON POST to the given path.
func (c *Client) post(ctx context.Context, path, text string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqBody, err := json.Marshal(textRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return buf.Bytes(), nil
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	}
	if resp.StatusCode == 429 {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// canonicalPositions deduplicates and sorts a position list into the
// canonical set representation used everywhere downstream.
func canonicalPositions(positions []int) []int {
	seen := make(map[int]bool, len(positions))
	set := make([]int, 0, len(positions))
	for _, p := range positions {
		if seen[p] {
			continue
		}
		seen[p] = true
		set = append(set, p)
	}
	sort.Ints(set)
	return set
}
