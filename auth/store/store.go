package store

import (
	"sync"
	"sync/atomic"

	"golang.org/x/oauth2"

	"github.com/jaramgle/storyclient/internal/collection"
)

// Listener observes access token changes. It receives the new access token,
// or an empty string when the credential was cleared.
type Listener func(accessToken string)

// Store is the single source of truth for the current credential pair,
// decoupled from any transport so every request pipeline observes consistent
// state. The in-memory default is fine for short-lived processes; use
// NewFileStore to survive restarts.
type Store interface {
	// SetToken replaces the held credential and synchronously notifies every
	// subscriber with the new access token. A nil token, or a token with an
	// empty access token, clears the credential.
	SetToken(token *oauth2.Token)
	// Token returns the held credential, or false when absent.
	Token() (*oauth2.Token, bool)
	// AccessToken returns the current access token, empty when absent.
	AccessToken() string
	// Clear removes the held credential. Safe to call when nothing is held.
	Clear()
	// Subscribe registers a listener invoked on every future SetToken.
	// The returned function removes the listener.
	Subscribe(listener Listener) func()
}

type memoryStore struct {
	mu        sync.RWMutex
	token     *oauth2.Token
	listeners *collection.SyncMap[int64, Listener]
	nextID    atomic.Int64
}

// NewMemoryStore returns an in-memory Store.
func NewMemoryStore() Store {
	return newMemoryStore()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{listeners: collection.NewSyncMap[int64, Listener]()}
}

func (m *memoryStore) SetToken(token *oauth2.Token) {
	if token != nil && token.AccessToken == "" {
		token = nil
	}
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	m.notify(accessOf(token))
}

// adopt replaces the held credential without notifying subscribers. It backs
// read-through restoration, which must stay invisible to observers.
func (m *memoryStore) adopt(token *oauth2.Token) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

func (m *memoryStore) Token() (*oauth2.Token, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return nil, false
	}
	return m.token, true
}

func (m *memoryStore) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return accessOf(m.token)
}

func (m *memoryStore) Clear() {
	m.SetToken(nil)
}

func (m *memoryStore) Subscribe(listener Listener) func() {
	id := m.nextID.Add(1)
	m.listeners.Put(id, listener)
	return func() {
		m.listeners.Delete(id)
	}
}

// notify invokes a snapshot of the listeners outside the store lock, so a
// listener may itself call SetToken or Subscribe.
func (m *memoryStore) notify(accessToken string) {
	for _, listener := range m.listeners.Values() {
		listener(accessToken)
	}
}

func accessOf(token *oauth2.Token) string {
	if token == nil {
		return ""
	}
	return token.AccessToken
}
