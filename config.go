package sendgrid

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production SendGrid v3 API endpoint.
const DefaultBaseURL = "https://api.sendgrid.com/v3"

// APIKey is a two-phase credential: it either holds a literal key or names
// an environment variable to read it from. Resolution happens synchronously
// in Config.Resolve, strictly before any network I/O, so an unset key fails
// the delivery attempt up front.
type APIKey struct {
	value  string
	envVar string
}

// APIKeyValue returns an APIKey holding the literal key.
func APIKeyValue(key string) APIKey {
	return APIKey{value: key}
}

// APIKeyFromEnv returns an APIKey resolved from the named environment
// variable at Resolve time.
func APIKeyFromEnv(name string) APIKey {
	return APIKey{envVar: name}
}

// resolve produces the concrete key or fails with a ConfigError when the
// key is unset or the environment variable is absent or empty.
func (k APIKey) resolve() (string, error) {
	if k.value != "" {
		return k.value, nil
	}
	if k.envVar != "" {
		if v := os.Getenv(k.envVar); v != "" {
			return v, nil
		}
		return "", NewConfigError("api_key", "no API key set: environment variable "+k.envVar+" is empty or unset")
	}
	return "", NewConfigError("api_key", "no API key set")
}

// Config holds the complete adapter configuration.
type Config struct {
	// APIKey is the SendGrid API key, literal or environment-indirected.
	APIKey APIKey

	// Sandbox enables SendGrid sandbox mode: requests are validated and
	// accepted by the API without dispatching mail.
	Sandbox bool

	// BaseURL overrides the API endpoint, mainly for test isolation.
	// Defaults to DefaultBaseURL.
	BaseURL string

	// Timeout is the maximum time to wait for one delivery request. It is
	// ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the HTTP client used for delivery requests.
	HTTPClient *http.Client

	// Logger receives per-delivery debug and warning events. Defaults to a
	// no-op logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
	}
}

// Validate checks if the configuration is valid and complete. The API key
// is deliberately not checked here; key resolution is a separate fallible
// phase (Resolve) so that environment reads stay out of validation.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return NewConfigError("base_url", "base URL must not be empty")
	}

	if c.HTTPClient == nil && c.Timeout <= 0 {
		return NewConfigError("timeout", "timeout must be greater than 0")
	}

	return nil
}

// ResolvedConfig is the concrete configuration a delivery runs with. The
// key is always a non-empty literal at this point.
type ResolvedConfig struct {
	APIKey  string
	Sandbox bool
	BaseURL string
}

// Resolve validates the configuration and resolves the API key, performing
// at most one environment read. It never touches the network.
func (c *Config) Resolve() (ResolvedConfig, error) {
	if err := c.Validate(); err != nil {
		return ResolvedConfig{}, err
	}

	key, err := c.APIKey.resolve()
	if err != nil {
		return ResolvedConfig{}, err
	}

	return ResolvedConfig{
		APIKey:  key,
		Sandbox: c.Sandbox,
		BaseURL: c.BaseURL,
	}, nil
}
