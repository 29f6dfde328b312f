package providers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig(name, baseURL string) ProviderConfig {
	return ProviderConfig{
		Name:    name,
		Type:    "generic",
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}
}

func TestHTTPClientStatusClassification(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		check      func(t *testing.T, err error)
	}{
		{
			name:       "401 maps to auth error",
			statusCode: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("expected *AuthError, got %T: %v", err, err)
				}
			},
		},
		{
			name:       "403 maps to auth error",
			statusCode: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("expected *AuthError, got %T: %v", err, err)
				}
			},
		},
		{
			name:       "402 maps to quota error",
			statusCode: http.StatusPaymentRequired,
			check: func(t *testing.T, err error) {
				var quotaErr *QuotaError
				if !errors.As(err, &quotaErr) {
					t.Fatalf("expected *QuotaError, got %T: %v", err, err)
				}
			},
		},
		{
			name:       "429 maps to rate limit error",
			statusCode: http.StatusTooManyRequests,
			check: func(t *testing.T, err error) {
				var rateErr *RateLimitError
				if !errors.As(err, &rateErr) {
					t.Fatalf("expected *RateLimitError, got %T: %v", err, err)
				}
			},
		},
		{
			name:       "500 maps to server error",
			statusCode: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var srvErr *ServerError
				if !errors.As(err, &srvErr) {
					t.Fatalf("expected *ServerError, got %T: %v", err, err)
				}
				if srvErr.StatusCode != http.StatusInternalServerError {
					t.Errorf("StatusCode = %d, want 500", srvErr.StatusCode)
				}
			},
		},
		{
			name:       "503 maps to server error",
			statusCode: http.StatusServiceUnavailable,
			check: func(t *testing.T, err error) {
				var srvErr *ServerError
				if !errors.As(err, &srvErr) {
					t.Fatalf("expected *ServerError, got %T: %v", err, err)
				}
			},
		},
		{
			name:       "418 maps to connection error with status",
			statusCode: http.StatusTeapot,
			check: func(t *testing.T, err error) {
				var connErr *ConnectionError
				if !errors.As(err, &connErr) {
					t.Fatalf("expected *ConnectionError, got %T: %v", err, err)
				}
				if connErr.StatusCode != http.StatusTeapot {
					t.Errorf("StatusCode = %d, want 418", connErr.StatusCode)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(`{"error": "nope"}`))
			}))
			defer server.Close()

			client := NewHTTPClient(testConfig("test", server.URL))
			defer client.Close()

			_, err := client.Do(context.Background(), "POST", server.URL+"/v1/chat/completions", []byte(`{}`), nil)
			if err == nil {
				t.Fatal("expected an error")
			}
			tt.check(t, err)
		})
	}
}

func TestHTTPClientSingleAttempt(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(testConfig("test", server.URL))
	defer client.Close()

	_, err := client.Do(context.Background(), "POST", server.URL, []byte(`{}`), nil)
	if err == nil {
		t.Fatal("expected an error")
	}

	// The client never retries on its own; retry policy lives upstream.
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("server saw %d attempts, want exactly 1", got)
	}
}

func TestHTTPClientRetryAfterHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(testConfig("test", server.URL))
	defer client.Close()

	_, err := client.Do(context.Background(), "POST", server.URL, []byte(`{}`), nil)

	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected *RateLimitError, got %T: %v", err, err)
	}
	if rateErr.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %s, want 7s", rateErr.RetryAfter)
	}
}

func TestHTTPClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig("test", server.URL)
	cfg.Timeout = 50 * time.Millisecond
	client := NewHTTPClient(cfg)
	defer client.Close()

	_, err := client.Do(context.Background(), "POST", server.URL, []byte(`{}`), nil)

	// A client-side timeout is a provider failure, not caller cancellation.
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected *ConnectionError for timeout, got %T: %v", err, err)
	}
}

func TestHTTPClientContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read; without it
		// the server never observes the client disconnect and the handler
		// (and the deferred server.Close) block forever.
		_, _ = io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewHTTPClient(testConfig("test", server.URL))
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.Do(ctx, "POST", server.URL, []byte(`{}`), nil)

	// Caller cancellation must surface as the plain context error so the
	// manager can tell it apart from a provider failure.
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %T: %v", err, err)
	}
}

func TestHTTPClientDoJSONParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`this is not json`))
	}))
	defer server.Close()

	client := NewHTTPClient(testConfig("test", server.URL))
	defer client.Close()

	var out map[string]any
	err := client.DoJSON(context.Background(), "POST", server.URL, map[string]string{"k": "v"}, &out, nil)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if parseErr.RawResponse == "" {
		t.Error("expected the raw body to be preserved for diagnostics")
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"empty", "", 0},
		{"seconds", "30", 30 * time.Second},
		{"zero seconds", "0", 0},
		{"garbage", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRetryAfter(tt.header); got != tt.want {
				t.Errorf("parseRetryAfter(%q) = %s, want %s", tt.header, got, tt.want)
			}
		})
	}
}

func TestParseRetryAfterHTTPDate(t *testing.T) {
	future := time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat)
	got := parseRetryAfter(future)
	if got < 80*time.Second || got > 90*time.Second {
		t.Errorf("parseRetryAfter(http-date) = %s, want roughly 90s", got)
	}
}
