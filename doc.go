// Package sendgrid provides a Go adapter for delivering email through the
// SendGrid v3 mail/send HTTP API.
//
// The adapter translates a generic, provider-agnostic email message into
// the exact SendGrid request shape, issues a single POST, and maps the
// response back into a uniform result: nil on success or a typed error.
// Request building is pure and deterministic, and any request data echoed
// through errors or logs has the API key redacted.
//
// # Basic Usage
//
//	config := sendgrid.DefaultConfig()
//
//	client, err := sendgrid.New(config, sendgrid.WithAPIKeyFromEnv("SENDGRID_API_KEY"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	email := &sendgrid.Email{
//		From:     sendgrid.Address{Email: "noreply@example.com"},
//		To:       []sendgrid.Address{{Email: "user@example.com", Name: "User"}},
//		Subject:  "Welcome",
//		HTMLBody: "<h1>Welcome!</h1>",
//		TextBody: "Welcome!",
//	}
//
//	err = client.Deliver(context.Background(), email)
//
// # SendGrid directives
//
// Provider-specific directives are attached through helper methods that
// return an updated copy of the message:
//
//	email := base.
//		WithTemplate("d-248cd4cb6de74493b8cd245d1e766b81").
//		AddSubstitution("-name-", "Jane").
//		WithASMGroupID(42)
//
// # Errors
//
// Delivery fails with *ConfigError (unresolvable API key, raised before
// any network I/O), *TransportError (network-level failure) or *APIError
// (non-2xx provider response). APIError carries the provider's raw
// response body and the transmitted request body with the API key
// replaced by "[FILTERED]".
//
// # Concurrency
//
// A Client is immutable after New and safe for concurrent use; callers
// wanting parallelism run multiple Deliver calls concurrently. The adapter
// performs no retries; retry policy belongs to the caller.
package sendgrid
