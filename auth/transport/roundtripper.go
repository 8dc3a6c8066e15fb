package transport

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
	"golang.org/x/sync/singleflight"

	"github.com/jaramgle/storyclient/auth/store"
	"github.com/jaramgle/storyclient/schema"
)

// refreshKey is the single-flight key: there is one refresh exchange per
// gateway, never one per caller.
const refreshKey = "refresh"

// RoundTripper executes HTTP calls with the current access token attached and
// transparently recovers from token expiry exactly once per request. When a
// 401 arrives while no refresh exchange is in flight, the failing call leads
// the exchange; calls observing a 401 while an exchange is in flight wait for
// its outcome instead of issuing their own.
type RoundTripper struct {
	store      store.Store
	refreshURL string
	transport  http.RoundTripper
	group      singleflight.Group
	logger     *zap.Logger
	onExpired  func(error)
}

// New creates a RoundTripper. A refresh URL is required; the store defaults
// to an in-memory store and the transport to http.DefaultTransport.
func New(options ...Option) (*RoundTripper, error) {
	ret := &RoundTripper{
		transport: http.DefaultTransport,
		store:     store.NewMemoryStore(),
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.refreshURL == "" {
		return nil, errors.New("transport: refresh URL is required")
	}
	return ret, nil
}

// Store exposes the underlying token store.
func (r *RoundTripper) Store() store.Store {
	return r.store
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// 1) Send with the current token attached, unauthenticated when none held.
	sent := r.store.AccessToken()
	attempt := clone(req)
	if sent != "" {
		attempt.Header.Set("Authorization", "Bearer "+sent)
	}
	resp, err := r.transport.RoundTrip(attempt)
	if err != nil {
		return nil, &schema.ConnectivityError{URL: req.URL.String(), Err: err}
	}

	// 2) Anything but a 401 passes through unchanged. 403 is an authorization
	// failure, not an expired token, so it never triggers a refresh.
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	access, err := r.freshToken(req.Context(), sent)
	if err != nil {
		return nil, err
	}

	// 3) Replay once with the refreshed token. A second 401 is terminal and
	// passes through without another exchange.
	retry := clone(req)
	retry.Header.Set("Authorization", "Bearer "+access)
	resp, err = r.transport.RoundTrip(retry)
	if err != nil {
		return nil, &schema.ConnectivityError{URL: req.URL.String(), Err: err}
	}
	return resp, nil
}

// freshToken returns an access token newer than the one the rejected attempt
// carried. If another caller already rotated the credential, the current token
// is used as-is; otherwise at most one refresh exchange runs and every caller
// blocked on it shares the outcome.
func (r *RoundTripper) freshToken(ctx context.Context, sent string) (string, error) {
	if current := r.store.AccessToken(); current != "" && current != sent {
		return current, nil
	}
	v, err, _ := r.group.Do(refreshKey, func() (interface{}, error) {
		// Re-check after acquiring leadership: the previous leader may have
		// rotated the credential between our 401 and this point.
		if current := r.store.AccessToken(); current != "" && current != sent {
			return current, nil
		}
		r.logger.Debug("refreshing access token", zap.String("url", r.refreshURL))
		token, err := r.refresh(ctx)
		if err != nil {
			r.logger.Warn("token refresh failed", zap.Error(err))
			r.store.Clear()
			refreshErr := &schema.RefreshError{Err: err}
			if r.onExpired != nil {
				r.onExpired(refreshErr)
			}
			return nil, refreshErr
		}
		r.logger.Debug("token refresh succeeded")
		r.store.SetToken(token)
		return token.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refresh performs the refresh exchange with the backend. The exchange is
// detached from the caller's cancellation: its outcome is shared by every
// blocked call, not owned by the leader.
func (r *RoundTripper) refresh(ctx context.Context) (*oauth2.Token, error) {
	prior, ok := r.store.Token()
	if !ok || prior.RefreshToken == "" {
		return nil, errors.New("no refresh token held")
	}
	body, err := json.Marshal(&refreshRequest{RefreshToken: prior.RefreshToken})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx),
		http.MethodPost, r.refreshURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("refresh endpoint returned %d: %s", resp.StatusCode, payload)
	}

	var pair schema.TokenPair
	if err = json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, fmt.Errorf("decoding refresh response: %w", err)
	}
	if pair.AccessToken == "" {
		return nil, errors.New("refresh response missing accessToken")
	}
	// preserve the refresh token when the backend did not rotate it
	if pair.RefreshToken == "" {
		pair.RefreshToken = prior.RefreshToken
	}
	return &oauth2.Token{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
	}, nil
}
