package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// ErrProviderUnavailable is returned when the payment provider cannot be
// reached or keeps failing after retries.
var ErrProviderUnavailable = errors.New("payment provider unavailable")

const (
	maxAttempts    = 3
	defaultTimeout = 5 * time.Second
	defaultBackoff = 500 * time.Millisecond
)

// LineItem is one priced cart entry sent to the provider.
type LineItem struct {
	Name      string  `json:"name"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// SessionRequest is the checkout-session creation payload.
type SessionRequest struct {
	Items []LineItem `json:"items"`
}

// Session is the provider's opaque handle for a pending checkout.
type Session struct {
	ID  string `json:"session_id"`
	URL string `json:"checkout_url,omitempty"`
}

// SessionProvider creates checkout sessions. Satisfied by *Client; tests
// substitute a stub.
type SessionProvider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

// Config holds payment provider connection details.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Backoff time.Duration // base delay between retries; grows exponentially
}

// Client is an HTTP client for the external payment provider.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new payment provider client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Backoff == 0 {
		cfg.Backoff = defaultBackoff
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// CreateSession asks the provider for a new checkout session. Transient
// failures (connection errors, 429, 5xx) are retried with exponential
// backoff; 4xx responses are returned immediately.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}
	url := c.cfg.BaseURL + "/v1/checkout/sessions"

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.cfg.Backoff * (1 << (attempt - 1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.cfg.APIKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			continue
		}

		session, retry, err := decodeSessionResponse(resp)
		if err == nil {
			return session, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
}

// decodeSessionResponse reads one provider response. The second return value
// reports whether the failure is worth retrying.
func decodeSessionResponse(resp *http.Response) (*Session, bool, error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var session Session
		if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
			return nil, false, fmt.Errorf("failed to decode session response: %w", err)
		}
		if session.ID == "" {
			return nil, false, fmt.Errorf("provider returned empty session id")
		}
		return &session, false, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		if wait := parseRetryAfter(resp.Header.Get("Retry-After")); wait > 0 {
			time.Sleep(wait)
		}
		return nil, true, fmt.Errorf("provider rate limited the request")

	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("provider returned status %d", resp.StatusCode)

	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("provider rejected the request: status %d, body %s", resp.StatusCode, detail)
	}
}

func parseRetryAfter(retryAfter string) time.Duration {
	if retryAfter == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if date, err := time.Parse(time.RFC1123, retryAfter); err == nil {
		return time.Until(date)
	}
	return 0
}
