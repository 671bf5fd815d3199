package summary

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/gmailsummary/internal/instrumentation"
	"github.com/teemow/gmailsummary/internal/logging"
)

const (
	// DefaultMaxMessages is the number of recent messages a fetch covers.
	DefaultMaxMessages = 10

	// gmailUser addresses the authenticated user on every API call.
	gmailUser = "me"

	tracerName = "github.com/teemow/gmailsummary/summary"
)

// Client wraps the Gmail Users service for summary fetches.
type Client struct {
	svc         *gmail.UsersService
	maxMessages int64
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
	tracer      trace.Tracer

	// construction-time settings
	httpClient *http.Client
	endpoint   string
}

// Option configures a Client.
type Option func(*Client)

// WithMaxMessages caps how many recent messages a fetch covers. Values
// outside (0, DefaultMaxMessages] are clamped to DefaultMaxMessages.
func WithMaxMessages(n int) Option {
	return func(c *Client) {
		if n > 0 && n <= DefaultMaxMessages {
			c.maxMessages = int64(n)
		}
	}
}

// WithLogger sets the structured logger used for skip/drop diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder for API call and fetch metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracer overrides the tracer used for fetch spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithHTTPClient replaces the OAuth2-authenticated HTTP client. The caller
// becomes responsible for attaching credentials to requests. Intended for
// tests and custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEndpoint overrides the Gmail API base URL. Intended for tests.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// NewClient creates a Gmail summary client that authenticates every request
// with the given bearer access token. The token is treated as opaque; it is
// the caller's job to obtain a valid one out-of-band.
func NewClient(ctx context.Context, accessToken string, opts ...Option) (*Client, error) {
	c := &Client{
		maxMessages: DefaultMaxMessages,
		logger:      slog.Default(),
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}

	if accessToken == "" && c.httpClient == nil {
		return nil, fmt.Errorf("access token is required")
	}

	var clientOpts []option.ClientOption
	if c.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(c.httpClient))
	} else {
		ts := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: accessToken,
			TokenType:   "Bearer",
		})
		clientOpts = append(clientOpts, option.WithTokenSource(ts))
	}
	if c.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(c.endpoint))
	}

	svc, err := gmail.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	c.svc = svc.Users

	c.logger.Debug("gmail summary client created",
		logging.Service(logging.ServiceGmail),
		slog.String("token", logging.SanitizeToken(accessToken)),
	)

	return c, nil
}

// recordAPICall forwards per-operation metrics; nil-safe when no recorder
// was configured.
func (c *Client) recordAPICall(ctx context.Context, op string, err error, start time.Time) {
	if c.metrics == nil {
		return
	}
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	c.metrics.RecordGmailOperation(ctx, op, status, time.Since(start))
}
