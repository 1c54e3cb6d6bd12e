package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"gpuhunt/internal/config"
	"gpuhunt/pkg/utils"
)

func newTestScraper(maxAttempts int) *Scraper {
	cfg := config.Default().HTTP
	cfg.Retry.MaxAttempts = maxAttempts
	cfg.Retry.InitialDelayMs = 1
	cfg.Retry.MaxDelayMs = 5

	return NewScraperWithConfig(cfg)
}

func TestScraper_FetchSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	body, err := newTestScraper(1).Fetch(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Fetch returned unexpected error: %v", err)
	}

	if body != "<html>ok</html>" {
		t.Errorf("body = %q", body)
	}

	if gotUA != utils.DefaultUserAgent {
		t.Errorf("User-Agent = %q, want browser default", gotUA)
	}

	if gotAccept != utils.AcceptHTML {
		t.Errorf("Accept = %q, want %q", gotAccept, utils.AcceptHTML)
	}
}

func TestScraper_FetchNon2xxIsError(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, status, _, err := newTestScraper(3).FetchWithMetrics(context.Background(), srv.URL, nil)
	if !errors.Is(err, ErrUnexpectedStatusCode) {
		t.Fatalf("error = %v, want %v", err, ErrUnexpectedStatusCode)
	}

	if status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", status)
	}

	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1 for a non-retryable status", calls.Load())
	}
}

func TestScraper_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	body, err := newTestScraper(2).Fetch(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Fetch returned unexpected error: %v", err)
	}

	if body != "recovered" || calls.Load() != 2 {
		t.Errorf("body = %q after %d calls, want recovered after 2", body, calls.Load())
	}
}

func TestScraper_DefaultPolicyDoesNotRetry(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewScraper().Fetch(context.Background(), srv.URL, nil); err == nil {
		t.Fatal("Fetch succeeded on 503")
	}

	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
}

func TestScraper_BodyIsCappedByBufferSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer srv.Close()

	cfg := config.Default().HTTP
	cfg.BufferSizeKb = 1

	body, err := NewScraperWithConfig(cfg).Fetch(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Fetch returned unexpected error: %v", err)
	}

	if len(body) != 1024 {
		t.Errorf("len(body) = %d, want 1024", len(body))
	}
}

func TestScraper_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestScraper(1).Fetch(ctx, srv.URL, nil); err == nil {
		t.Fatal("Fetch succeeded with a canceled context")
	}
}

func TestScraper_RejectsRelativeURL(t *testing.T) {
	_, status, _, err := newTestScraper(3).FetchWithMetrics(context.Background(), "/pricing", nil)
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("err = %v, want ErrInvalidURL", err)
	}

	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
}
