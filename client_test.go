package sendgrid

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is an httptest server standing in for the SendGrid API. It
// records the last request it saw.
type fakeProvider struct {
	*httptest.Server

	hits    atomic.Int64
	lastReq atomic.Pointer[recordedRequest]
}

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

func newFakeProvider(t *testing.T, status int, respBody string) *fakeProvider {
	t.Helper()

	p := &fakeProvider{}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		p.lastReq.Store(&recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(p.Server.Close)
	return p
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{WithAPIKey("123_abc"), WithBaseURL(baseURL)}, opts...)
	client, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)
	return client
}

func TestDeliverSuccess(t *testing.T) {
	provider := newFakeProvider(t, http.StatusOK, "")
	client := newTestClient(t, provider.URL)

	email := &Email{From: Address{Email: "foo@bar.com"}}
	require.NoError(t, client.Deliver(context.Background(), email))

	req := provider.lastReq.Load()
	require.NotNil(t, req)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/mail/send", req.Path)
	assert.Equal(t, "Bearer 123_abc", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Contains(t, req.Header.Get("User-Agent"), "lattiq-sendgrid/")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, map[string]interface{}{"email": "foo@bar.com"}, body["from"])
}

func TestDeliverAcceptsAny2xx(t *testing.T) {
	provider := newFakeProvider(t, http.StatusAccepted, `{"queued":true}`)
	client := newTestClient(t, provider.URL)

	err := client.Deliver(context.Background(), &Email{From: Address{Email: "foo@bar.com"}})
	assert.NoError(t, err)
}

func TestDeliverSandboxMode(t *testing.T) {
	provider := newFakeProvider(t, http.StatusOK, "")
	client := newTestClient(t, provider.URL, WithSandbox(true))

	email := Email{From: Address{Email: "foo@bar.com"}}
	decorated := email.WithBypassListManagement(true)
	require.NoError(t, client.Deliver(context.Background(), &decorated))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(provider.lastReq.Load().Body, &body))
	assert.Equal(t, map[string]interface{}{
		"sandbox_mode":           map[string]interface{}{"enable": true},
		"bypass_list_management": map[string]interface{}{"enable": true},
	}, body["mail_settings"])
}

func TestDeliverAPIError(t *testing.T) {
	provider := newFakeProvider(t, http.StatusInternalServerError, "Error!!")
	client := newTestClient(t, provider.URL)

	err := client.Deliver(context.Background(), &Email{From: Address{Email: "INVALID_EMAIL"}})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Error!!", apiErr.Body)

	assert.Equal(t, "Bearer "+RedactionMarker, apiErr.RequestHeaders["Authorization"])
	assert.NotContains(t, apiErr.RequestBody, "123_abc")
	for _, v := range apiErr.RequestHeaders {
		assert.NotContains(t, v, "123_abc")
	}
}

func TestDeliverRedactsKeyInRequestBody(t *testing.T) {
	provider := newFakeProvider(t, http.StatusBadRequest, `{"errors":[{"message":"bad"}]}`)
	client := newTestClient(t, provider.URL)

	// The key leaks into the body itself through a custom arg; redaction
	// must cover the exact transmitted bytes, not just the headers.
	email := Email{From: Address{Email: "foo@bar.com"}}.AddCustomArg("token", "123_abc")
	err := client.Deliver(context.Background(), &email)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.RequestBody, RedactionMarker)
	assert.NotContains(t, apiErr.RequestBody, "123_abc")

	// The redaction only rewrites the error artifact, not the wire request.
	assert.Contains(t, string(provider.lastReq.Load().Body), "123_abc")
}

func TestDeliverTransportError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := provider.URL
	provider.Close()

	client := newTestClient(t, endpoint)
	err := client.Deliver(context.Background(), &Email{From: Address{Email: "foo@bar.com"}})
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.True(t, strings.HasSuffix(transportErr.Endpoint, "/mail/send"))

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "network failures must not look like provider failures")
}

func TestDeliverContextCancellation(t *testing.T) {
	provider := newFakeProvider(t, http.StatusOK, "")
	client := newTestClient(t, provider.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Deliver(ctx, &Email{From: Address{Email: "foo@bar.com"}})
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFailsFastWithoutAPIKey(t *testing.T) {
	provider := newFakeProvider(t, http.StatusOK, "")

	_, err := New(DefaultConfig(), WithBaseURL(provider.URL))
	require.Error(t, err)
	assert.True(t, errors.Is(err, &ConfigError{}))
	assert.Contains(t, err.Error(), "no API key set")

	assert.Equal(t, int64(0), provider.hits.Load(), "configuration failures must stay pre-flight")
}

func TestNewFailsFastWithUnresolvedEnvironmentKey(t *testing.T) {
	provider := newFakeProvider(t, http.StatusOK, "")

	_, err := New(DefaultConfig(),
		WithBaseURL(provider.URL),
		WithAPIKeyFromEnv("SENDGRID_TEST_KEY_THAT_IS_NOT_SET"),
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &ConfigError{}))
	assert.Equal(t, int64(0), provider.hits.Load())
}

func TestNewResolvesKeyFromEnvironment(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "env_key_789")

	provider := newFakeProvider(t, http.StatusOK, "")
	client, err := New(DefaultConfig(),
		WithBaseURL(provider.URL),
		WithAPIKeyFromEnv("SENDGRID_API_KEY"),
	)
	require.NoError(t, err)

	require.NoError(t, client.Deliver(context.Background(), &Email{From: Address{Email: "foo@bar.com"}}))
	assert.Equal(t, "Bearer env_key_789", provider.lastReq.Load().Header.Get("Authorization"))
}

func TestDeliverFullMessageShape(t *testing.T) {
	provider := newFakeProvider(t, http.StatusOK, "")
	client := newTestClient(t, provider.URL)

	email := Email{
		From:     Address{Email: "noreply@example.com", Name: "Example"},
		To:       []Address{{Email: "one@example.com", Name: "One"}, {Email: "two@example.com"}},
		Subject:  "Greetings",
		TextBody: "hello",
		HTMLBody: "<p>hello</p>",
		Headers: []Header{
			{Name: "X-Campaign", Value: "spring"},
			{Name: "Reply-To", Addr: &Address{Email: "replies@example.com", Name: "Support"}},
		},
		Attachments: []Attachment{{Filename: "hello.txt", Data: []byte("hi")}},
	}
	decorated := email.AddSubstitution("-name-", "One").WithASMGroupID(7)

	require.NoError(t, client.Deliver(context.Background(), &decorated))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(provider.lastReq.Load().Body, &body))

	assert.Equal(t, "Greetings", body["subject"])
	assert.Equal(t, map[string]interface{}{"email": "replies@example.com", "name": "Support"}, body["reply_to"])
	assert.Equal(t, map[string]interface{}{"X-Campaign": "spring"}, body["headers"])
	assert.Equal(t, map[string]interface{}{"group_id": float64(7)}, body["asm"])

	personalizations := body["personalizations"].([]interface{})
	require.Len(t, personalizations, 1)
	p := personalizations[0].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"-name-": "One"}, p["substitutions"])

	to := p["to"].([]interface{})
	require.Len(t, to, 2)
	assert.Equal(t, map[string]interface{}{"email": "one@example.com", "name": "One"}, to[0])
	assert.Equal(t, map[string]interface{}{"email": "two@example.com"}, to[1])
}

var _ Deliverer = (*Client)(nil)

func TestDeliverConcurrent(t *testing.T) {
	provider := newFakeProvider(t, http.StatusOK, "")
	client := newTestClient(t, provider.URL)

	const n = 16
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			errs <- client.Deliver(context.Background(), &Email{From: Address{Email: "foo@bar.com"}})
		}()
	}
	for i := 0; i < n; i++ {
		assert.NoError(t, <-errs)
	}
	assert.Equal(t, int64(n), provider.hits.Load())
}
