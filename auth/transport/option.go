package transport

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jaramgle/storyclient/auth/store"
)

type Option func(*RoundTripper)

// WithStore sets the token store.
func WithStore(store store.Store) Option {
	return func(t *RoundTripper) {
		t.store = store
	}
}

// WithRefreshURL sets the refresh endpoint.
func WithRefreshURL(refreshURL string) Option {
	return func(t *RoundTripper) {
		t.refreshURL = refreshURL
	}
}

// WithTransport sets the underlying transport.
func WithTransport(transport http.RoundTripper) Option {
	return func(t *RoundTripper) {
		t.transport = transport
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *RoundTripper) {
		t.logger = logger
	}
}

// WithOnAuthExpired sets a callback invoked once per failed refresh exchange,
// after local credentials were cleared, so the application can force
// re-authentication.
func WithOnAuthExpired(callback func(error)) Option {
	return func(t *RoundTripper) {
		t.onExpired = callback
	}
}
