package sendgrid

import (
	"context"
)

// Deliverer defines the delivery contract implemented by the adapter.
// All methods are safe for concurrent use.
type Deliverer interface {
	// Deliver sends a single email through the SendGrid v3 mail/send API.
	// It returns nil on any 2xx provider response. Failures surface as
	// *ConfigError (pre-flight, no network I/O performed), *TransportError
	// (network-level failure) or *APIError (non-2xx provider response with
	// the API key redacted from the echoed request).
	Deliver(ctx context.Context, email *Email) error
}
