package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
)

func TestSnippet(t *testing.T) {
	testCases := []struct {
		input    string
		max      int
		expected string
	}{
		{"short text", 100, "short text"},
		{"", 100, ""},
		{"  trimmed  ", 100, "trimmed"},
		{"long text that should be truncated", 10, "long text ..."},
	}

	for _, tc := range testCases {
		result := snippet([]byte(tc.input), tc.max)
		if result != tc.expected {
			t.Errorf("snippet(%q, %d) = %q, want %q", tc.input, tc.max, result, tc.expected)
		}
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{
		Method:     "GET",
		URL:        "https://catalog.example.edu/bundle.json",
		StatusCode: 404,
		Body:       []byte("Not Found"),
	}

	expected := "http error: GET https://catalog.example.edu/bundle.json status=404 body=Not Found"
	if err.Error() != expected {
		t.Errorf("HTTPError.Error() = %q, want %q", err.Error(), expected)
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxAttempts != 5 {
		t.Errorf("Expected MaxAttempts to be 5, got %d", cfg.MaxAttempts)
	}
	if cfg.BaseDelay != 500*time.Millisecond {
		t.Errorf("Expected BaseDelay to be 500ms, got %v", cfg.BaseDelay)
	}
	if cfg.MaxDelay != 15*time.Second {
		t.Errorf("Expected MaxDelay to be 15s, got %v", cfg.MaxDelay)
	}
	if !cfg.Retry5xx {
		t.Error("Expected Retry5xx to be true")
	}
	for _, status := range []int{429, 408, 503, 502, 504} {
		if !cfg.RetryStatuses[status] {
			t.Errorf("Expected status %d to be retryable", status)
		}
	}
}

func TestWithDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond}.withDefaults()

	if cfg.MaxAttempts != 2 {
		t.Errorf("Expected MaxAttempts 2, got %d", cfg.MaxAttempts)
	}
	if cfg.BaseDelay != time.Millisecond {
		t.Errorf("Expected BaseDelay 1ms, got %v", cfg.BaseDelay)
	}
	if cfg.MaxDelay != 15*time.Second {
		t.Errorf("Expected default MaxDelay, got %v", cfg.MaxDelay)
	}
	if cfg.RetryStatuses == nil {
		t.Error("Expected default retry statuses")
	}
}

func TestIsRetryableStatus(t *testing.T) {
	cfg := DefaultRetryConfig()

	for i := 500; i <= 599; i++ {
		if !isRetryableStatus(i, cfg) {
			t.Errorf("Expected status %d to be retryable", i)
		}
	}
	for _, status := range []int{400, 401, 403, 404, 422} {
		if isRetryableStatus(status, cfg) {
			t.Errorf("Expected status %d to not be retryable", status)
		}
	}

	cfg.Retry5xx = false
	if isRetryableStatus(500, cfg) {
		t.Error("Expected status 500 to not be retryable when Retry5xx is false")
	}
	if !isRetryableStatus(429, cfg) {
		t.Error("Expected status 429 to be retryable regardless of Retry5xx")
	}
}

func TestIsRetryableNetErr(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"timeout", &timeoutError{}, true},
		{"connection reset", errors.New("connection reset by peer"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"eof", errors.New("unexpected EOF"), true},
		{"other", errors.New("some other error"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRetryableNetErr(tc.err); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

const retryAfterHeader = "Retry-After"

func TestParseRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}

	resp.Header.Set(retryAfterHeader, "30")
	if d := ParseRetryAfter(resp); d != 30*time.Second {
		t.Errorf("Expected 30s, got %v", d)
	}

	resp.Header.Set(retryAfterHeader, time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat))
	if d := ParseRetryAfter(resp); d != 0 {
		t.Errorf("Expected 0 for past date, got %v", d)
	}

	resp.Header.Set(retryAfterHeader, "invalid")
	if d := ParseRetryAfter(resp); d != 0 {
		t.Errorf("Expected 0 for invalid format, got %v", d)
	}

	resp.Header.Del(retryAfterHeader)
	if d := ParseRetryAfter(resp); d != 0 {
		t.Errorf("Expected 0 for empty header, got %v", d)
	}
}

func TestReadBodyDecodesBrotli(t *testing.T) {
	payload := `{"majors": ["Computer Science, BS"]}`

	testCases := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{"plain", "", []byte(payload)},
		{"brotli", "br", compress(t, payload)},
		{"brotli upper case", "BR", compress(t, payload)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}, Body: io.NopCloser(bytes.NewReader(tc.body))}
			if tc.encoding != "" {
				resp.Header.Set("Content-Encoding", tc.encoding)
			}
			got, err := readBody(resp)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if string(got) != payload {
				t.Errorf("Expected %q, got %q", payload, string(got))
			}
		})
	}
}

func TestGetJSONAgainstServer(t *testing.T) {
	var sawAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAccept = r.Header.Get("Accept-Encoding")
		w.Header().Set("Content-Encoding", "br")
		w.Header().Set("Content-Type", "application/json")
		bw := brotli.NewWriter(w)
		_, _ = bw.Write([]byte(`{"name": "catalog", "courses": 3}`))
		_ = bw.Close()
	}))
	defer server.Close()

	var out struct {
		Name    string `json:"name"`
		Courses int    `json:"courses"`
	}
	if err := GetJSON(context.Background(), server.Client(), server.URL, &out, DefaultRetryConfig()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out.Name != "catalog" || out.Courses != 3 {
		t.Errorf("Unexpected decode result: %+v", out)
	}
	if !strings.Contains(sawAccept, "br") {
		t.Errorf("Expected Accept-Encoding to advertise br, got %q", sawAccept)
	}
}

func compress(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("compress: %v", err)
	}
	return buf.Bytes()
}

// timeoutError implements net.Error.
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "timeout error" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }
