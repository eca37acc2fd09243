package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roomcheck/internal/config"
	"roomcheck/pkg/utils"
)

// HTTP store errors.
var (
	ErrInvalidBaseURL       = errors.New("invalid base URL")
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
)

const maxDocumentBytes = 4 << 20

// HTTPStore fetches room documents from a content service at
// GET {base}/rooms/{id}, retrying transient failures with backoff.
type HTTPStore struct {
	client      *http.Client
	baseURL     string
	headers     http.Header
	retryPolicy config.RetryPolicy
}

// NewHTTPStore creates a store from the http store settings.
func NewHTTPStore(cfg config.HTTPConfig) (*HTTPStore, error) {
	if !utils.IsValidURL(cfg.BaseURL) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}

	custom := map[string]string{}
	if cfg.Token != "" {
		custom["Authorization"] = "Bearer " + cfg.Token
	}

	// a zero policy still makes one attempt
	policy := cfg.Retry
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	return &HTTPStore{
		client:      &http.Client{Timeout: policy.GetTimeout()},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		headers:     utils.BuildHeaders(cfg.UserAgent, custom),
		retryPolicy: policy,
	}, nil
}

// Fetch retrieves one room. 404 maps to ErrNotFound; 408, 429, 503 and 504
// and transport errors are retried up to the policy's attempt limit.
func (s *HTTPStore) Fetch(ctx context.Context, id string) (Document, error) {
	if err := CheckID(id); err != nil {
		return nil, err
	}

	endpoint := s.baseURL + "/rooms/" + url.PathEscape(id)

	var lastErr error

	for attempt := 1; attempt <= s.retryPolicy.MaxAttempts; attempt++ {
		if err := s.wait(ctx, attempt); err != nil {
			return nil, err
		}

		doc, retry, err := s.fetchOnce(ctx, endpoint, id)
		if err == nil {
			return doc, nil
		}

		lastErr = fmt.Errorf("attempt %d/%d: %w", attempt, s.retryPolicy.MaxAttempts, err)
		if !retry {
			return nil, lastErr
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no attempt made for %s", ErrUnexpectedStatusCode, id)
	}

	return nil, lastErr
}

func (s *HTTPStore) fetchOnce(ctx context.Context, endpoint, id string) (Document, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = s.headers.Clone()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: %s", ErrNotFound, id)
	case resp.StatusCode != http.StatusOK:
		return nil, isRetryableStatus(resp.StatusCode), fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := Decode(body, formatFromContentType(resp.Header.Get("Content-Type")))
	if err != nil {
		return nil, false, err
	}

	return doc, false, nil
}

// wait sleeps the backoff delay before attempt, returning early on cancellation.
func (s *HTTPStore) wait(ctx context.Context, attempt int) error {
	delay := s.retryPolicy.GetRetryDelay(attempt)
	if delay <= 0 {
		return ctx.Err()
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

func formatFromContentType(ct string) string {
	switch {
	case strings.Contains(ct, "json"):
		return "json"
	case strings.Contains(ct, "yaml"):
		return "yaml"
	default:
		return ""
	}
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout,
		http.StatusTooManyRequests, http.StatusRequestTimeout:
		return true
	}

	return false
}
