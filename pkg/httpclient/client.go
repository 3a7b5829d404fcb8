package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"time"
)

// maxDrainBytes bounds how much of a discarded response body is read so the
// connection can go back to the pool.
const maxDrainBytes = 64 << 10

// Config holds HTTP client configuration.
type Config struct {
	Timeout         time.Duration
	MaxRetries      int
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	MaxConnsPerHost int
	UserAgent       string
}

// DefaultConfig returns the client defaults for calls to upstream APIs.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryWaitMin:    time.Second,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 100,
		UserAgent:       "storefront/1.0",
	}
}

// Client is an http.Client with pooled connections and bounded retries.
type Client struct {
	httpClient *http.Client
	config     Config
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		config:     cfg,
	}
}

// Do sends req, retrying network errors and retryable 5xx responses up to
// MaxRetries times. With MaxRetries == 0 exactly one request is sent.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if c.config.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	for attempt := 0; ; attempt++ {
		last := attempt >= c.config.MaxRetries

		resp, err := c.httpClient.Do(req)
		switch {
		case err != nil:
			if last || !isRetryableError(err) {
				return nil, fmt.Errorf("http request failed after %d attempts: %w", attempt+1, err)
			}
		case last || !retryableStatus(resp.StatusCode):
			return resp, nil
		default:
			drain(resp)
		}

		select {
		case <-time.After(addJitter(c.backoff(attempt))):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Get issues a GET that accepts JSON.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := newGet(ctx, url)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// backoff doubles RetryWaitMin per attempt, capped at RetryWaitMax.
func (c *Client) backoff(attempt int) time.Duration {
	wait := c.config.RetryWaitMin << uint(attempt)
	if wait <= 0 || wait > c.config.RetryWaitMax {
		return c.config.RetryWaitMax
	}
	return wait
}

func newGet(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func drain(resp *http.Response) {
	_, _ = io.CopyN(io.Discard, resp.Body, maxDrainBytes)
	_ = resp.Body.Close()
}

// retryableStatus is true for server errors other than 501 Not Implemented.
func retryableStatus(code int) bool {
	return code >= http.StatusInternalServerError && code != http.StatusNotImplemented
}

// addJitter spreads d by up to ±25% so concurrent retries do not align.
func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	spread := int64(d) / 2
	if spread == 0 {
		return d
	}
	return d - time.Duration(spread/2) + time.Duration(rand.Int64N(spread+1))
}

// isRetryableError reports whether err is a transport failure worth retrying.
// Caller cancellation never is.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
