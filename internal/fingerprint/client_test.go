package fingerprint

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient()

	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %s, want %s", client.baseURL, DefaultBaseURL)
	}
	if client.httpClient == nil {
		t.Error("httpClient should not be nil")
	}
	if client.limiter == nil {
		t.Error("limiter should not be nil")
	}
}

func TestNewClient_WithOptions(t *testing.T) {
	customURL := "http://custom:8080"
	customKey := "secret"
	customClient := &http.Client{Timeout: 5 * time.Second}

	client := NewClient(
		WithBaseURL(customURL),
		WithAPIKey(customKey),
		WithHTTPClient(customClient),
		WithRateLimit(10),
	)

	if client.baseURL != customURL {
		t.Errorf("baseURL = %s, want %s", client.baseURL, customURL)
	}
	if client.apiKey != customKey {
		t.Errorf("apiKey = %s, want %s", client.apiKey, customKey)
	}
	if client.httpClient != customClient {
		t.Error("httpClient option not applied")
	}
}

// newTestClient creates a client pointed at a test server with a high rate
// limit so tests don't wait on the limiter.
func newTestClient(serverURL string) *Client {
	return NewClient(WithBaseURL(serverURL), WithRateLimit(1000))
}

func TestClient_Fingerprint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPathFingerprint {
			t.Errorf("path = %s, want %s", r.URL.Path, apiPathFingerprint)
		}
		var req textRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Text != "sample text" {
			t.Errorf("text = %q, want %q", req.Text, "sample text")
		}
		json.NewEncoder(w).Encode(map[string]any{"positions": []int{42, 7, 42, 1}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	positions, err := client.Fingerprint(context.Background(), "sample text")
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}

	// Duplicates removed, output sorted.
	want := []int{1, 7, 42}
	if !reflect.DeepEqual(positions, want) {
		t.Errorf("Fingerprint() = %v, want %v", positions, want)
	}
}

func TestClient_SimilarTerms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPathSimilarTerms {
			t.Errorf("path = %s, want %s", r.URL.Path, apiPathSimilarTerms)
		}
		json.NewEncoder(w).Encode(map[string]any{"terms": []string{"genome", "genomes", "mutation"}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	terms, err := client.SimilarTerms(context.Background(), "sample text")
	if err != nil {
		t.Fatalf("SimilarTerms() error: %v", err)
	}

	// Ranked order preserved, duplicates kept for the normalizer.
	want := []string{"genome", "genomes", "mutation"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("SimilarTerms() = %v, want %v", terms, want)
	}
}

func TestClient_Fingerprint_MissingPositions(t *testing.T) {
	// A 200 without a positions field is a malformed response, never an
	// empty success.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Fingerprint(context.Background(), "text")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("error = %v, want ErrInvalidResponse", err)
	}
}

func TestClient_Fingerprint_EmptyPositionsIsValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"positions":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	positions, err := client.Fingerprint(context.Background(), "text")
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("Fingerprint() = %v, want empty set", positions)
	}
}

func TestClient_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{
			name:   "401 auth error",
			status: http.StatusUnauthorized,
			check:  IsAuthError,
		},
		{
			name:   "403 auth error",
			status: http.StatusForbidden,
			check:  IsAuthError,
		},
		{
			name:   "429 rate limited",
			status: http.StatusTooManyRequests,
			check:  IsRateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.Fingerprint(context.Background(), "text")
			if err == nil {
				t.Fatal("Fingerprint() succeeded, want error")
			}
			if !tt.check(err) {
				t.Errorf("error %v not classified for status %d", err, tt.status)
			}
		})
	}
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.SimilarTerms(context.Background(), "text")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
}

func TestClient_SendsAPIKey(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		w.Write([]byte(`{"positions":[1]}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAPIKey("secret"), WithRateLimit(1000))
	if _, err := client.Fingerprint(context.Background(), "text"); err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("api-key header = %q, want %q", gotKey, "secret")
	}
}

func TestCanonicalPositions(t *testing.T) {
	tests := []struct {
		name     string
		input    []int
		expected []int
	}{
		{
			name:     "already canonical",
			input:    []int{1, 2, 3},
			expected: []int{1, 2, 3},
		},
		{
			name:     "unsorted with duplicates",
			input:    []int{9, 3, 9, 1, 3},
			expected: []int{1, 3, 9},
		},
		{
			name:     "empty",
			input:    []int{},
			expected: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canonicalPositions(tt.input); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("canonicalPositions(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
