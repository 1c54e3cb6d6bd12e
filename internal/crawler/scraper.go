// Package crawler fetches provider pages and APIs and reduces their markup.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"gpuhunt/internal/config"
	"gpuhunt/pkg/utils"
)

var (
	// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid url")
)

// Fetcher retrieves the body of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (string, error)
}

// Scraper handles HTTP fetches with config-driven timeout and retry logic.
type Scraper struct {
	client       *http.Client
	retryPolicy  *config.RetryPolicy
	headers      *utils.HTTPHelper
	bufferSizeKb int
}

// NewScraper creates a new scraper with a 30s timeout and no retries.
func NewScraper() *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: config.DefaultTimeoutSec * time.Second,
		},
		retryPolicy: &config.RetryPolicy{
			MaxAttempts:       1,
			InitialDelayMs:    500,
			MaxDelayMs:        10000,
			BackoffMultiplier: 2.0,
			TimeoutSec:        config.DefaultTimeoutSec,
		},
		headers:      utils.NewHTTPHelper(""),
		bufferSizeKb: config.DefaultBufferKb,
	}
}

// NewScraperWithConfig creates a scraper from the http section of the config.
func NewScraperWithConfig(cfg config.HTTPConfig) *Scraper {
	retry := cfg.Retry

	return &Scraper{
		client: &http.Client{
			Timeout: retry.GetTimeout(),
		},
		retryPolicy:  &retry,
		headers:      utils.NewHTTPHelper(cfg.UserAgent),
		bufferSizeKb: cfg.BufferSizeKb,
	}
}

// Fetch returns the body of url. headers override the browser defaults.
func (s *Scraper) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	content, _, _, err := s.FetchWithMetrics(ctx, url, headers)

	return content, err
}

// FetchWithMetrics returns (content, statusCode, duration, error).
func (s *Scraper) FetchWithMetrics(ctx context.Context, url string, headers map[string]string) (string, int, time.Duration, error) {
	var lastErr error

	var lastStatusCode int

	totalDuration := time.Duration(0)

	if !s.headers.IsValidURL(url) {
		return "", 0, totalDuration, fmt.Errorf("%w: %q", ErrInvalidURL, url)
	}

	for attempt := 1; attempt <= s.retryPolicy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := s.wait(ctx, attempt); err != nil {
				return "", lastStatusCode, totalDuration, err
			}
		}

		startTime := time.Now()
		body, status, err := s.do(ctx, url, headers)
		totalDuration += time.Since(startTime)
		lastStatusCode = status

		if err == nil {
			return body, status, totalDuration, nil
		}

		lastErr = fmt.Errorf("request to %s failed (attempt %d/%d): %w", url, attempt, s.retryPolicy.MaxAttempts, err)

		if status != 0 && !isRetryableStatus(status) {
			break
		}
	}

	return "", lastStatusCode, totalDuration, lastErr
}

func (s *Scraper) do(ctx context.Context, url string, headers map[string]string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = s.headers.BuildHeaders(headers)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	limit := int64(s.bufferSizeKb) * 1024

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), resp.StatusCode, nil
}

func (s *Scraper) wait(ctx context.Context, attempt int) error {
	delay := s.retryPolicy.GetRetryDelay(attempt)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable, // 503
		http.StatusGatewayTimeout,  // 504
		http.StatusTooManyRequests, // 429
		http.StatusRequestTimeout:  // 408
		return true
	}

	return false
}
