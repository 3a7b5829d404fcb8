// Package catalog fetches the product catalog from the remote catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/keremustuner/Case-Study/internal/domain"
	"github.com/keremustuner/Case-Study/pkg/httpclient"
	"github.com/keremustuner/Case-Study/pkg/tracing"
	"github.com/keremustuner/Case-Study/pkg/validator"
)

// maxResponseBytes caps the catalog payload read into memory.
const maxResponseBytes = 8 << 20

// ErrMalformed marks a response that could not be decoded or validated.
var ErrMalformed = errors.New("malformed catalog response")

// StatusError is returned when the catalog answers outside the 2xx range.
type StatusError struct {
	StatusCode int
	cause      error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return e.cause
}

// Fetcher loads the full product list.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
}

// Client fetches products over HTTP through a circuit breaker.
type Client struct {
	http   *httpclient.CircuitBreakerClient
	url    string
	logger *slog.Logger
	tracer trace.Tracer
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a catalog client for the given products endpoint URL.
func NewClient(cb *httpclient.CircuitBreakerClient, productsURL string, logger *slog.Logger) *Client {
	return &Client{
		http:   cb,
		url:    productsURL,
		logger: logger,
		tracer: tracing.Tracer("github.com/keremustuner/Case-Study/internal/catalog"),
	}
}

// URL returns the products endpoint the client calls.
func (c *Client) URL() string {
	return c.url
}

// FetchProducts performs one GET against the products endpoint and decodes
// the JSON array it returns. Every record must pass validation; a single bad
// record fails the whole fetch.
func (c *Client) FetchProducts(ctx context.Context) (products []domain.Product, err error) {
	ctx, span := c.tracer.Start(ctx, "catalog.FetchProducts",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", c.url)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("catalog.products", len(products)))
		}
		span.End()
	}()

	resp, err := c.http.Get(ctx, c.url)
	if err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) {
			return nil, &StatusError{StatusCode: se.StatusCode, cause: err}
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		cause := httpclient.ParseResponseError(resp, c.http.Name())
		return nil, &StatusError{StatusCode: resp.StatusCode, cause: cause}
	}

	return decodeProducts(io.LimitReader(resp.Body, maxResponseBytes))
}

func decodeProducts(r io.Reader) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if products == nil {
		return nil, fmt.Errorf("%w: expected a JSON array of products", ErrMalformed)
	}
	for i, p := range products {
		if err := validator.Validate(p); err != nil {
			return nil, fmt.Errorf("%w: product %d (%q): %v", ErrMalformed, i, p.Name, err)
		}
	}
	return products, nil
}

// Check reports the catalog as unhealthy while its circuit breaker is open.
func (c *Client) Check(_ context.Context) error {
	if c.http.State() == gobreaker.StateOpen {
		return fmt.Errorf("%s: %w", c.http.Name(), httpclient.ErrCircuitOpen)
	}
	return nil
}
