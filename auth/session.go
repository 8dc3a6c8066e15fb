package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/viant/afs/url"

	"github.com/jaramgle/storyclient/auth/store"
	"github.com/jaramgle/storyclient/schema"
)

// ErrNotAuthenticated reports that no usable credential is held.
var ErrNotAuthenticated = errors.New("auth: not authenticated")

// Session manages the login lifecycle on top of the token store: startup
// bootstrap via the refresh endpoint, callback-style login completion and
// best-effort logout revocation.
type Session struct {
	baseURL       string
	store         store.Store
	authenticated *http.Client
	plain         *http.Client
	logger        *zap.Logger
}

type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithPlainClient sets the client used for the bootstrap refresh exchange.
// It must not route through the authenticated gateway.
func WithPlainClient(client *http.Client) SessionOption {
	return func(s *Session) {
		s.plain = client
	}
}

// NewSession creates a Session. The authenticated client is expected to carry
// the gateway transport; it is used for /me and the logout revocation call.
func NewSession(baseURL string, st store.Store, authenticated *http.Client, options ...SessionOption) *Session {
	ret := &Session{
		baseURL:       baseURL,
		store:         st,
		authenticated: authenticated,
		plain:         http.DefaultClient,
		logger:        zap.NewNop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// LoginURL returns the backend's browser login entry point for a provider
// (e.g. "google"). The backend redirects back with accessToken/refreshToken
// query parameters, which complete the login via CompleteLogin.
func (s *Session) LoginURL(provider string) string {
	return url.Join(s.baseURL, "oauth2/authorization", provider)
}

// CompleteLogin stores the token pair delivered by the login callback and
// returns the authenticated profile.
func (s *Session) CompleteLogin(ctx context.Context, accessToken, refreshToken string) (*schema.Profile, error) {
	if accessToken == "" || refreshToken == "" {
		s.store.Clear()
		return nil, fmt.Errorf("%w: login callback missing tokens", ErrNotAuthenticated)
	}
	s.store.SetToken(&oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	})
	return s.Me(ctx)
}

// Bootstrap restores a session at startup: it exchanges the stored refresh
// token for a fresh pair and loads the profile. On any failure the store is
// cleared and the caller must re-authenticate.
func (s *Session) Bootstrap(ctx context.Context) (*schema.Profile, error) {
	token, ok := s.store.Token()
	if !ok || token.RefreshToken == "" {
		s.store.Clear()
		return nil, ErrNotAuthenticated
	}
	pair, err := s.refreshExchange(ctx, token.RefreshToken)
	if err != nil {
		s.store.Clear()
		return nil, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = token.RefreshToken
	}
	s.store.SetToken(&oauth2.Token{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
	})
	return s.Me(ctx)
}

// Me returns the authenticated user's profile.
func (s *Session) Me(ctx context.Context) (*schema.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.Join(s.baseURL, "me"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.authenticated.Do(req)
	if err != nil {
		return nil, unwrapTransportError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, schema.ErrorFromResponse(resp)
	}
	profile := &schema.Profile{}
	if err = json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return profile, nil
}

// Logout revokes the refresh credential best-effort and always clears the
// local store; a failed revocation call never blocks local logout.
func (s *Session) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url.Join(s.baseURL, "auth/logout"), nil)
	if err == nil {
		resp, callErr := s.authenticated.Do(req)
		if callErr != nil {
			s.logger.Warn("logout revocation failed", zap.Error(callErr))
		} else {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}
	s.store.Clear()
	return nil
}

func (s *Session) refreshExchange(ctx context.Context, refreshToken string) (*schema.TokenPair, error) {
	body, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		url.Join(s.baseURL, "auth/refresh"), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.plain.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("refresh endpoint returned %d: %s", resp.StatusCode, payload)
	}
	pair := &schema.TokenPair{}
	if err = json.NewDecoder(resp.Body).Decode(pair); err != nil {
		return nil, fmt.Errorf("decoding refresh response: %w", err)
	}
	if pair.AccessToken == "" {
		return nil, errors.New("refresh response missing accessToken")
	}
	return pair, nil
}

// unwrapTransportError recovers typed gateway errors that http.Client wraps
// into *url.Error.
func unwrapTransportError(err error) error {
	var connectivity *schema.ConnectivityError
	if errors.As(err, &connectivity) {
		return connectivity
	}
	var refresh *schema.RefreshError
	if errors.As(err, &refresh) {
		return refresh
	}
	return err
}
