package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"mining_analytics/internal/platform/metrics"
	"mining_analytics/internal/shared/market"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 16 << 20

// HTTPStatusError is returned for non-2xx upstream responses.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *HTTPStatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ClientOptions configures a Client. Zero fields take defaults.
type ClientOptions struct {
	Name              string        // upstream name used in logs and metrics
	Timeout           time.Duration // per attempt, default 10s
	RequestsPerSecond float64       // default 5
	Burst             int           // default 1
	MaxAttempts       int           // default 3
	InitialInterval   time.Duration // first backoff delay, default 500ms
}

func (o *ClientOptions) applyDefaults() {
	if o.Name == "" {
		o.Name = "upstream"
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 5
	}
	if o.Burst <= 0 {
		o.Burst = 1
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialInterval <= 0 {
		o.InitialInterval = 500 * time.Millisecond
	}
}

// Client performs rate limited GET requests with bounded exponential backoff.
//
// Network errors, 429 and 5xx responses are retried; other 4xx are permanent.
// Every failure is reported wrapped in market.ErrDataUnavailable.
type Client struct {
	opts    ClientOptions
	http    *http.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewClient creates a Client with the transport from NewHTTPClient.
func NewClient(opts ClientOptions, m *metrics.Metrics) *Client {
	opts.applyDefaults()
	return NewClientWithHTTP(NewHTTPClient(opts.Timeout), opts, m)
}

// NewClientWithHTTP uses hc as the underlying client. Tests pass an
// httptest server client here.
func NewClientWithHTTP(hc *http.Client, opts ClientOptions, m *metrics.Metrics) *Client {
	opts.applyDefaults()
	return &Client{
		opts:    opts,
		http:    hc,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		metrics: m,
		logger:  log.With().Str("component", "http_client").Str("upstream", opts.Name).Logger(),
	}
}

// Get fetches url and returns the response body of the first 2xx attempt.
func (c *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	start := time.Now()

	var body []byte
	attempt := 0
	operation := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("upstream request failed")
			return err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			statusErr := &HTTPStatusError{StatusCode: resp.StatusCode, Body: truncate(string(b), 256)}
			if !statusErr.Retryable() {
				return backoff.Permanent(statusErr)
			}
			c.logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Msg("upstream returned retryable status")
			return statusErr
		}
		body = b
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.opts.InitialInterval
	exp.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.opts.MaxAttempts-1)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		c.metrics.ObserveUpstream(c.opts.Name, outcome(err), time.Since(start))
		c.logger.Error().Err(err).Int("attempts", attempt).Msg("upstream request gave up")
		return nil, fmt.Errorf("%s: %w: %w", c.opts.Name, market.ErrDataUnavailable, err)
	}
	c.metrics.ObserveUpstream(c.opts.Name, "ok", time.Since(start))
	return body, nil
}

// GetJSON fetches url and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, out any) error {
	body, err := c.Get(ctx, url, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decoding response: %w: %w", c.opts.Name, market.ErrDataUnavailable, err)
	}
	return nil
}

func outcome(err error) string {
	var statusErr *HTTPStatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("status_%d", statusErr.StatusCode)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
