// Package matchapi is the HTTP client for the upstream matchmaking API.
package matchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/swipefeed/swipefeed/internal/datasources"
	"github.com/swipefeed/swipefeed/internal/domain"
)

// notEnoughCandidatesDetail is the error detail the API returns when it has nobody to show.
const notEnoughCandidatesDetail = "Недостаточно пользователей"

// Retry defaults for idempotent calls.
const (
	DefaultMaxAttempts  = 3
	DefaultRetryBackoff = 500 * time.Millisecond
)

var _ datasources.MatchAPI = (*Client)(nil)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Detail     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// Client is an HTTP client for the matchmaking API.
type Client struct {
	baseURL     string
	apiToken    string
	httpClient  *http.Client
	maxAttempts int
	backoff     time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRetry sets how many attempts idempotent calls get and the linear backoff step between them.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

// NewClient creates a new API client.
func NewClient(baseURL, apiToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchFeedPage fetches one page of the feed. Transient failures are retried; once retries
// are spent the error matches domain.ErrFetchFailed.
func (c *Client) FetchFeedPage(ctx context.Context, req domain.PageRequest) ([]domain.Candidate, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(req.Limit))
	params.Set("offset", strconv.Itoa(req.Offset))
	if req.Refresh {
		params.Set("refresh", "true")
	}

	var raw json.RawMessage
	if err := c.doWithRetry(ctx, http.MethodGet, "/feed/?"+params.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("fetching feed page at offset %d: %w", req.Offset, err)
	}

	candidates, err := decodeCandidates(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding feed page: %w", err)
	}
	return candidates, nil
}

// MarkCandidateViewed records that the viewer has seen a candidate.
func (c *Client) MarkCandidateViewed(ctx context.Context, candidateID string) error {
	path := "/interactions/view/" + url.PathEscape(candidateID)
	if err := c.doWithRetry(ctx, http.MethodPost, path, nil); err != nil {
		return fmt.Errorf("marking candidate [%s] viewed: %w", candidateID, err)
	}
	return nil
}

// ToggleLike flips the like on a candidate. A toggle is not idempotent, so it is never retried.
func (c *Client) ToggleLike(ctx context.Context, candidateID string) (domain.LikeResult, error) {
	var result domain.LikeResult

	path := "/interactions/like/" + url.PathEscape(candidateID)
	if err := c.do(ctx, http.MethodPost, path, &result); err != nil {
		return domain.LikeResult{}, fmt.Errorf("toggling like on candidate [%s]: %w", candidateID, err)
	}
	return result, nil
}

// FetchDuelPair fetches the next duel round, reporting winnerID as the choice from the last one.
func (c *Client) FetchDuelPair(ctx context.Context, winnerID string) (domain.DuelRound, error) {
	path := "/battle/pair"
	if winnerID != "" {
		path += "?" + url.Values{"winner_id": []string{winnerID}}.Encode()
	}

	var round domain.DuelRound
	if err := c.doWithRetry(ctx, http.MethodGet, path, &round); err != nil {
		return domain.DuelRound{}, fmt.Errorf("fetching duel pair: %w", err)
	}
	return round, nil
}

func (c *Client) doWithRetry(ctx context.Context, method, path string, result interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.wait(ctx, attempt-1); err != nil {
				return lastErr
			}
		}

		lastErr = c.do(ctx, method, path, result)
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) wait(ctx context.Context, step int) error {
	timer := time.NewTimer(c.backoff * time.Duration(step))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) do(ctx context.Context, method, path string, result interface{}) error {
	resp, err := c.doRequest(ctx, method, path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	return c.handleResponse(resp, result)
}

func (c *Client) doRequest(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return resp, nil
}

func (c *Client) handleResponse(resp *http.Response, result interface{}) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(body),
			Body:       string(body),
		}

		switch {
		case apiErr.Detail == notEnoughCandidatesDetail:
			return fmt.Errorf("%w: %w", domain.ErrNotEnoughCandidates, apiErr)
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", domain.ErrFetchFailed, apiErr)
		default:
			return apiErr
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

// retryable reports whether a failed call may succeed if repeated: transport failures,
// 5xx and 429 responses. Domain answers are final.
func retryable(err error) bool {
	if errors.Is(err, domain.ErrNotEnoughCandidates) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, domain.ErrFetchFailed)
}

func errorDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		// Validation errors carry a structured detail.
		return string(payload.Detail)
	}
	return detail
}

// decodeCandidates accepts both a bare array and an object wrapping it in "data".
func decodeCandidates(raw json.RawMessage) ([]domain.Candidate, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var candidates []domain.Candidate
		if err := json.Unmarshal(trimmed, &candidates); err != nil {
			return nil, err
		}
		return candidates, nil
	}

	var wrapped struct {
		Data []domain.Candidate `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Data, nil
}
