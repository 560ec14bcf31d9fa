package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"
)

// TooManyRequestsError represents rate limiting signal from the
// notification gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// QuoteExpiredEvent is the payload delivered when a quote passes its
// validity window without being accepted.
type QuoteExpiredEvent struct {
	RequestID     string    `json:"requestId"`
	ProjectNumber string    `json:"projectNumber"`
	QuoteID       string    `json:"quoteId"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	ExpiredAt     time.Time `json:"expiredAt"`
}

// Client exposes operations to push workflow events to the
// notification gateway.
type Client interface {
	QuoteExpired(ctx context.Context, event QuoteExpiredEvent) error
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates HTTP notifier client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse notifier url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notifier url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// QuoteExpired posts the event to the gateway.
func (c *HTTPClient) QuoteExpired(ctx context.Context, event QuoteExpiredEvent) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/notifications/quote-expired")

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		return nil
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return TooManyRequestsError{RetryAfter: retryAfter}
	default:
		payload, _ := io.ReadAll(resp.Body)
		c.logger.Error("notifier request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(payload)))
		return fmt.Errorf("notifier error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// NoopClient swallows events. Used when no gateway is configured.
type NoopClient struct{}

// QuoteExpired does nothing.
func (NoopClient) QuoteExpired(context.Context, QuoteExpiredEvent) error { return nil }

var _ Client = (*HTTPClient)(nil)
var _ Client = NoopClient{}
