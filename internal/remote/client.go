// Package remote is a client for the SplitFree REST API, which owns groups,
// expenses, balances and identity.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/mmynk/splitfree/internal/metrics"
)

// ErrUnavailable is returned while the circuit breaker rejects calls.
var ErrUnavailable = errors.New("remote API unavailable")

// ErrNoToken is returned when neither the context nor the client carries a token.
var ErrNoToken = errors.New("remote API token required")

// APIError is a non-2xx response from the remote API.
type APIError struct {
	Endpoint string
	Status   int
	Detail   string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: remote API returned status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s: remote API returned status %d: %s", e.Endpoint, e.Status, e.Detail)
}

// StatusCode extracts the HTTP status from an *APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Config configures a Client.
type Config struct {
	BaseURL string

	// Token is used when the request context carries no token.
	Token string

	Timeout time.Duration

	// BreakerFailures consecutive failures open the breaker for BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// Client talks to the remote API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// New creates a client for the API at cfg.BaseURL.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown == 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "splitfree-api",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		// Client errors are the caller's fault, not a sign the API is down.
		IsSuccessful: func(err error) bool {
			status := StatusCode(err)
			return err == nil || (status >= 400 && status < 500)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Remote API circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			if to == gobreaker.StateOpen {
				metrics.RemoteBreakerOpen.Set(1)
			} else {
				metrics.RemoteBreakerOpen.Set(0)
			}
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
	}
}

type tokenKey struct{}

// WithToken returns a context whose remote calls authenticate as token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the token set by WithToken, or "".
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

func (c *Client) tokenFor(ctx context.Context) string {
	if token := TokenFromContext(ctx); token != "" {
		return token
	}
	return c.token
}

// do sends one request through the breaker and decodes a 2xx body into out (if non-nil).
func (c *Client) do(ctx context.Context, endpoint, method, path string, body, out any) error {
	token := c.tokenFor(ctx)
	if token == "" {
		return fmt.Errorf("%s: %w", endpoint, ErrNoToken)
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
		}
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.send(ctx, endpoint, method, path, token, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RemoteRequests.WithLabelValues(endpoint, "rejected").Inc()
		return fmt.Errorf("%s: %w: %v", endpoint, ErrUnavailable, err)
	}
	if err != nil {
		return err
	}

	data := result.([]byte)
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, endpoint, method, path, token string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Token "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RemoteRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("failed to execute %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	metrics.RemoteRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	slog.Debug("Remote API call",
		"endpoint", endpoint,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Endpoint: endpoint, Status: resp.StatusCode, Detail: errorDetail(data)}
	}
	return data, nil
}

// errorDetail pulls the "detail" message out of an error body, falling back to the raw text.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
