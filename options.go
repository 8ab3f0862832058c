package sendgrid

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option is a functional option for configuring the adapter.
type Option func(*Config)

// WithAPIKey sets a literal API key.
func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.APIKey = APIKeyValue(key)
	}
}

// WithAPIKeyFromEnv resolves the API key from the named environment
// variable when the client is created.
func WithAPIKeyFromEnv(name string) Option {
	return func(c *Config) {
		c.APIKey = APIKeyFromEnv(name)
	}
}

// WithSandbox enables or disables SendGrid sandbox mode.
func WithSandbox(enabled bool) Option {
	return func(c *Config) {
		c.Sandbox = enabled
	}
}

// WithBaseURL overrides the API endpoint. Intended for tests and
// integration environments.
func WithBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithHTTPClient overrides the HTTP client used for delivery requests.
// When set, Timeout is ignored in favor of the client's own settings.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithLogger sets the logger that receives per-delivery events. Request
// data passed to the logger always has the API key redacted.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = &logger
	}
}
