package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jaramgle/storyclient/auth/store"
	"github.com/jaramgle/storyclient/schema"
)

// testBackend is a stub API plus refresh endpoint with an adjustable notion of
// the currently valid access token.
type testBackend struct {
	mu           sync.Mutex
	validAccess  string
	refreshToken string
	refreshCalls atomic.Int32
	refreshDelay time.Duration
	refreshFails bool
	server       *httptest.Server
}

func newTestBackend(validAccess, refreshToken string) *testBackend {
	b := &testBackend{validAccess: validAccess, refreshToken: refreshToken}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", b.handleRefresh)
	mux.HandleFunc("/api/data", b.handleData)
	b.server = httptest.NewServer(mux)
	return b
}

func (b *testBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)
	if b.refreshDelay > 0 {
		time.Sleep(b.refreshDelay)
	}
	var request struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = json.NewDecoder(r.Body).Decode(&request)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refreshFails || request.RefreshToken != b.refreshToken {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "INVALID_REFRESH_TOKEN", "message": "refresh token rejected"})
		return
	}
	b.validAccess = fmt.Sprintf("access-%d", b.refreshCalls.Load())
	b.refreshToken = fmt.Sprintf("refresh-%d", b.refreshCalls.Load())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(&schema.TokenPair{AccessToken: b.validAccess, RefreshToken: b.refreshToken})
}

func (b *testBackend) handleData(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	valid := b.validAccess
	b.mu.Unlock()
	if r.Header.Get("Authorization") != "Bearer "+valid {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func (b *testBackend) roundTripper(t *testing.T, st store.Store, options ...Option) *RoundTripper {
	options = append([]Option{
		WithStore(st),
		WithRefreshURL(b.server.URL + "/auth/refresh"),
	}, options...)
	rt, err := New(options...)
	require.NoError(t, err)
	return rt
}

func (b *testBackend) get(rt *RoundTripper) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, b.server.URL+"/api/data", nil)
	if err != nil {
		return nil, err
	}
	return rt.RoundTrip(req)
}

func TestRoundTripper_RequiresRefreshURL(t *testing.T) {
	_, err := New()
	require.Error(t, err)
}

func TestRoundTripper_PassThroughWithValidToken(t *testing.T) {
	backend := newTestBackend("a1", "r1")
	defer backend.server.Close()

	st := store.NewMemoryStore()
	st.SetToken(&oauth2.Token{AccessToken: "a1", RefreshToken: "r1"})
	rt := backend.roundTripper(t, st)

	resp, err := backend.get(rt)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, int(backend.refreshCalls.Load()))
}

func TestRoundTripper_RefreshesOn401AndRetries(t *testing.T) {
	backend := newTestBackend("fresh", "r1")
	defer backend.server.Close()

	st := store.NewMemoryStore()
	st.SetToken(&oauth2.Token{AccessToken: "stale", RefreshToken: "r1"})
	rt := backend.roundTripper(t, st)

	resp, err := backend.get(rt)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, int(backend.refreshCalls.Load()))

	// the rotated pair replaced the stale one
	token, ok := st.Token()
	require.True(t, ok)
	assert.Equal(t, "access-1", token.AccessToken)
	assert.Equal(t, "refresh-1", token.RefreshToken)
}

func TestRoundTripper_ConcurrentCallsShareOneRefresh(t *testing.T) {
	backend := newTestBackend("fresh", "r1")
	defer backend.server.Close()
	backend.refreshDelay = 50 * time.Millisecond

	st := store.NewMemoryStore()
	st.SetToken(&oauth2.Token{AccessToken: "stale", RefreshToken: "r1"})
	rt := backend.roundTripper(t, st)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	codes := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := backend.get(rt)
			if err != nil {
				errs[i] = err
				return
			}
			codes[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, http.StatusOK, codes[i])
	}
	assert.Equal(t, 1, int(backend.refreshCalls.Load()))
	assert.Equal(t, "access-1", st.AccessToken())
}

func TestRoundTripper_SecondRejectionIsTerminal(t *testing.T) {
	backend := newTestBackend("never-issued", "r1")
	defer backend.server.Close()
	// refresh succeeds but rotates validAccess, keep the API rejecting anyway
	backend.server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			backend.handleRefresh(w, r)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	st := store.NewMemoryStore()
	st.SetToken(&oauth2.Token{AccessToken: "stale", RefreshToken: "r1"})
	rt := backend.roundTripper(t, st)

	resp, err := backend.get(rt)
	require.NoError(t, err)
	defer resp.Body.Close()
	// one refresh, one replay, then the 401 passes through
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 1, int(backend.refreshCalls.Load()))
}

func TestRoundTripper_403NeverRefreshes(t *testing.T) {
	backend := newTestBackend("a1", "r1")
	defer backend.server.Close()
	backend.server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	st := store.NewMemoryStore()
	st.SetToken(&oauth2.Token{AccessToken: "a1", RefreshToken: "r1"})
	rt := backend.roundTripper(t, st)

	resp, err := backend.get(rt)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, int(backend.refreshCalls.Load()))
}

func TestRoundTripper_UnauthenticatedWhenNoToken(t *testing.T) {
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rt, err := New(WithRefreshURL(server.URL + "/auth/refresh"))
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/public", nil)
	require.NoError(t, err)
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "", authHeader)
}

func TestRoundTripper_401WithoutRefreshTokenFailsFast(t *testing.T) {
	backend := newTestBackend("fresh", "r1")
	defer backend.server.Close()

	st := store.NewMemoryStore()
	rt := backend.roundTripper(t, st)

	_, err := backend.get(rt)
	require.Error(t, err)
	var refreshErr *schema.RefreshError
	require.ErrorAs(t, err, &refreshErr)
	// no exchange was attempted, there was nothing to exchange
	assert.Equal(t, 0, int(backend.refreshCalls.Load()))
}

func TestRoundTripper_RefreshFailureClearsStoreAndSignals(t *testing.T) {
	backend := newTestBackend("fresh", "r1")
	defer backend.server.Close()
	backend.refreshDelay = 50 * time.Millisecond
	backend.refreshFails = true

	st := store.NewMemoryStore()
	st.SetToken(&oauth2.Token{AccessToken: "stale", RefreshToken: "r1"})
	var expired atomic.Int32
	rt := backend.roundTripper(t, st, WithOnAuthExpired(func(error) {
		expired.Add(1)
	}))

	const callers = 4
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = backend.get(rt)
		}(i)
	}
	wg.Wait()

	// every blocked caller shares the failed outcome
	for i := 0; i < callers; i++ {
		require.Error(t, errs[i])
		var refreshErr *schema.RefreshError
		assert.ErrorAs(t, errs[i], &refreshErr)
	}
	assert.Equal(t, 1, int(backend.refreshCalls.Load()))
	assert.Equal(t, 1, int(expired.Load()))
	_, ok := st.Token()
	assert.False(t, ok)
}

func TestRoundTripper_ConnectivityError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	rt, err := New(WithRefreshURL(server.URL + "/auth/refresh"))
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/data", nil)
	require.NoError(t, err)
	_, err = rt.RoundTrip(req)
	require.Error(t, err)
	var connectivity *schema.ConnectivityError
	assert.ErrorAs(t, err, &connectivity)
}

func TestRoundTripper_StaleSenderReusesRotatedToken(t *testing.T) {
	backend := newTestBackend("current", "r1")
	defer backend.server.Close()

	st := store.NewMemoryStore()
	st.SetToken(&oauth2.Token{AccessToken: "current", RefreshToken: "r1"})
	rt := backend.roundTripper(t, st)

	// a caller whose 401 was observed with a token that has since been
	// replaced retries with the current one instead of forcing an exchange
	access, err := rt.freshToken(context.Background(), "stale")
	require.NoError(t, err)
	assert.Equal(t, "current", access)
	assert.Equal(t, 0, int(backend.refreshCalls.Load()))
}
