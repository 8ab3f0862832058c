package sendgrid

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lattiq/sendgrid/internal/core"
	"github.com/lattiq/sendgrid/internal/mail"
)

// Type aliases to re-export core types for the public API.
// This allows users to access types like sendgrid.Email instead of
// core.Email, maintaining a clean public interface while keeping
// implementation details internal.
type (
	Email      = core.Email
	Address    = core.Address
	Attachment = core.Attachment
	Header     = core.Header
	Options    = core.Options
)

// sendPath is the mail send endpoint, relative to the configured base URL.
const sendPath = "/mail/send"

// Client implements the Deliverer interface against the SendGrid v3 API.
// All methods are safe for concurrent use; a delivery is an independent,
// stateless unit of work with no shared mutable state.
type Client struct {
	config   ResolvedConfig
	rest     *rest.Client
	endpoint string
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// New creates a new SendGrid client with the given configuration. The API
// key is resolved here, so a missing or unresolvable key fails immediately
// rather than on the first delivery.
func New(config Config, opts ...Option) (*Client, error) {
	// Apply functional options
	for _, opt := range opts {
		opt(&config)
	}

	resolved, err := config.Resolve()
	if err != nil {
		return nil, err
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Client{
		config:   resolved,
		rest:     &rest.Client{HTTPClient: httpClient},
		endpoint: resolved.BaseURL + sendPath,
		logger:   logger,
		tracer:   otel.Tracer("github.com/lattiq/sendgrid"),
	}, nil
}

// Deliver sends a single email.
func (c *Client) Deliver(ctx context.Context, email *Email) error {
	ctx, span := c.tracer.Start(ctx, "sendgrid.Client.Deliver")
	defer span.End()

	span.SetAttributes(
		attribute.String("mailer.from", email.From.Email),
		attribute.Int("mailer.recipients", len(email.To)),
		attribute.Bool("mailer.sandbox", c.config.Sandbox),
	)

	// The key is resolved in New; re-check pre-flight so a mis-constructed
	// client can never issue an unauthenticated request.
	if c.config.APIKey == "" {
		err := NewConfigError("api_key", "no API key set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "unresolved configuration")
		return err
	}

	body, err := mail.BuildPayload(email, c.config.Sandbox)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payload build failed")
		return err
	}

	headers := c.headers()

	status, respBody, err := c.send(ctx, body, headers)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failed")
		c.logger.Warn().Err(err).Msg("sendgrid delivery transport failure")
		return err
	}

	span.SetAttributes(attribute.Int("mailer.status_code", status))

	if err := c.interpret(status, respBody, body, headers); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider rejected delivery")
		c.logger.Warn().Int("status", status).Str("response", respBody).Msg("sendgrid delivery rejected")
		return err
	}

	span.SetStatus(codes.Ok, "email delivered")
	c.logger.Debug().Int("status", status).Msg("sendgrid delivery accepted")

	return nil
}

// send issues the single HTTP POST for a delivery and returns the raw
// status and body. It performs no retries and no interpretation; network
// failures come back as *TransportError.
func (c *Client) send(ctx context.Context, body []byte, headers map[string]string) (int, string, error) {
	resp, err := c.rest.SendWithContext(ctx, rest.Request{
		Method:  rest.Post,
		BaseURL: c.endpoint,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return 0, "", NewTransportError(c.endpoint, err)
	}
	return resp.StatusCode, resp.Body, nil
}

// interpret classifies the provider response: any 2xx status is success and
// the body is discarded, anything else becomes an *APIError carrying the
// redacted outbound request.
func (c *Client) interpret(status int, respBody string, sentBody []byte, sentHeaders map[string]string) error {
	if status >= 200 && status < 300 {
		return nil
	}
	return NewAPIError(status, respBody, sentBody, sentHeaders, c.config.APIKey)
}

// headers builds the request header set for one delivery.
func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.config.APIKey,
		"Content-Type":  "application/json",
		"User-Agent":    UserAgent(),
	}
}
