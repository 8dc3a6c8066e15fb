package storyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/viant/afs/url"
	"go.uber.org/zap"

	"github.com/jaramgle/storyclient/auth"
	"github.com/jaramgle/storyclient/auth/store"
	"github.com/jaramgle/storyclient/auth/transport"
	"github.com/jaramgle/storyclient/schema"
)

// Client talks to the Jaramgle story platform. All calls go through the
// authenticated gateway transport; a 401 is recovered transparently by the
// refresh protocol, every other failure surfaces as a typed schema error.
type Client struct {
	baseURL    string
	store      store.Store
	tokenFile  string
	underlying http.RoundTripper
	httpClient *http.Client
	session    *auth.Session
	logger     *zap.Logger
	onExpired  func(error)

	Account    *AccountService
	Stories    *StoriesService
	Characters *CharactersService
	Billing    *BillingService
	Board      *BoardService
	Admin      *AdminService
}

// Option configures a Client.
type Option func(*Client)

// WithStore sets the token store.
func WithStore(st store.Store) Option {
	return func(c *Client) {
		c.store = st
	}
}

// WithTokenFile persists the credential pair at the given path so a restart
// restores the previous session. It takes precedence over WithStore.
func WithTokenFile(path string) Option {
	return func(c *Client) {
		c.tokenFile = path
	}
}

// WithTransport sets the underlying HTTP transport below the gateway.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.underlying = rt
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithOnAuthExpired sets a callback invoked when the refresh exchange fails
// terminally and the application must re-authenticate.
func WithOnAuthExpired(callback func(error)) Option {
	return func(c *Client) {
		c.onExpired = callback
	}
}

// New creates a Client for the platform API at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("storyclient: base URL is required")
	}
	c := &Client{
		baseURL:    baseURL,
		store:      store.NewMemoryStore(),
		underlying: http.DefaultTransport,
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.tokenFile != "" {
		c.store = store.NewFileStore(c.tokenFile, store.WithLogger(c.logger))
	}
	gateway, err := transport.New(
		transport.WithStore(c.store),
		transport.WithRefreshURL(url.Join(c.baseURL, "auth/refresh")),
		transport.WithTransport(c.underlying),
		transport.WithLogger(c.logger),
		transport.WithOnAuthExpired(c.onExpired),
	)
	if err != nil {
		return nil, err
	}
	c.httpClient = &http.Client{Transport: gateway}
	c.session = auth.NewSession(c.baseURL, c.store, c.httpClient,
		auth.WithLogger(c.logger),
		auth.WithPlainClient(&http.Client{Transport: c.underlying}),
	)

	c.Account = &AccountService{client: c}
	c.Stories = &StoriesService{client: c}
	c.Characters = &CharactersService{client: c}
	c.Billing = &BillingService{client: c}
	c.Board = &BoardService{client: c}
	c.Admin = &AdminService{client: c}
	return c, nil
}

// Session returns the login lifecycle manager.
func (c *Client) Session() *auth.Session {
	return c.session
}

// Store exposes the token store, e.g. to subscribe to credential changes.
func (c *Client) Store() store.Store {
	return c.store
}

// BaseURL returns the configured platform API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call issues one JSON API request and decodes the response into out when
// non-nil. Non-2xx responses map to the schema error taxonomy.
func (c *Client) call(ctx context.Context, method, path string, query neturl.Values, body, out interface{}) error {
	endpoint := url.Join(c.baseURL, path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return schema.ErrorFromResponse(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// transportError recovers typed gateway errors that http.Client wraps into
// *url.Error; anything else is a connectivity failure.
func (c *Client) transportError(endpoint string, err error) error {
	var connectivity *schema.ConnectivityError
	if errors.As(err, &connectivity) {
		return connectivity
	}
	var refresh *schema.RefreshError
	if errors.As(err, &refresh) {
		return refresh
	}
	return &schema.ConnectivityError{URL: endpoint, Err: err}
}
