package mock

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jaramgle/storyclient/schema"
)

// PlatformService is a configurable stub of the story platform backend. Tests
// override individual endpoint handlers; unset endpoints fall back to default
// behavior: a working refresh exchange with refresh-token rotation, logout
// revocation and a static profile.
type PlatformService struct {
	// Secret signs the minted access tokens.
	Secret []byte
	// Issuer is the `iss` claim of minted access tokens.
	Issuer string
	// Profile is returned by the default /me handler.
	Profile schema.Profile

	// Endpoint overrides; nil falls back to the default handler.
	RefreshHandler http.HandlerFunc
	LogoutHandler  http.HandlerFunc
	MeHandler      http.HandlerFunc

	mu           sync.Mutex
	refreshToken string
	revoked      bool
	refreshCalls atomic.Int32
}

// NewPlatformService creates a stub backend holding the given refresh token
// as the currently valid refresh credential.
func NewPlatformService(refreshToken string) *PlatformService {
	return &PlatformService{
		Secret:       []byte("mock-platform-secret"),
		Issuer:       "https://mock.jaramgle.test",
		Profile:      schema.Profile{ID: 1, Email: "tester@jaramgle.test", Nickname: "tester", Provider: "google", Role: "USER"},
		refreshToken: refreshToken,
	}
}

// RefreshCalls reports how many refresh exchanges the stub served, so tests
// can assert the single-refresh invariant.
func (m *PlatformService) RefreshCalls() int {
	return int(m.refreshCalls.Load())
}

// RefreshToken returns the currently valid refresh credential.
func (m *PlatformService) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshToken
}

// Revoked reports whether the refresh credential was revoked via logout.
func (m *PlatformService) Revoked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked
}

// defaultRefreshHandler serves POST /auth/refresh: it validates the presented
// refresh token, rotates it, and responds with a freshly minted pair.
func (m *PlatformService) defaultRefreshHandler(w http.ResponseWriter, r *http.Request) {
	m.refreshCalls.Add(1)
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var request struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	valid := !m.revoked && request.RefreshToken != "" && request.RefreshToken == m.refreshToken
	if valid {
		m.refreshToken = uuid.NewString()
	}
	rotated := m.refreshToken
	m.mu.Unlock()
	if !valid {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "INVALID_REFRESH_TOKEN", "message": "refresh token rejected"})
		return
	}
	access, err := m.createAccessToken(time.Hour)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(&schema.TokenPair{AccessToken: access, RefreshToken: rotated})
}

// defaultLogoutHandler serves POST /auth/logout, revoking the refresh token.
func (m *PlatformService) defaultLogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m.mu.Lock()
	m.revoked = true
	m.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// defaultMeHandler serves GET /me for any bearer token signed by the stub.
func (m *PlatformService) defaultMeHandler(w http.ResponseWriter, r *http.Request) {
	if !m.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(&m.Profile)
}
