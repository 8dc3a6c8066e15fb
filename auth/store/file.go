package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// FileStore mirrors the credential to a JSON file so a process restart can
// restore it, while delegating in-memory behavior to a memory store. Write
// path: every SetToken persists the new pair (or removes the file on clear)
// before subscribers are notified. Read path: when memory holds nothing, the
// persisted pair is loaded back and re-populates the memory store without
// notifying, so reads stay side-effect-free for observers. Persistence
// failures are logged and ignored; in-memory behavior stays correct
// regardless.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
	memory *memoryStore
}

type fileSnapshot struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithLogger sets the logger persistence failures are reported to.
func WithLogger(logger *zap.Logger) FileOption {
	return func(f *FileStore) {
		f.logger = logger
	}
}

// NewFileStore creates a Store persisting the credential at the given path.
func NewFileStore(path string, options ...FileOption) *FileStore {
	ret := &FileStore{path: path, memory: newMemoryStore(), logger: zap.NewNop()}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

func (f *FileStore) SetToken(token *oauth2.Token) {
	f.mu.Lock()
	if token == nil || token.AccessToken == "" {
		f.removeLocked()
	} else if err := f.save(token); err != nil {
		f.logger.Warn("persisting credential failed", zap.String("path", f.path), zap.Error(err))
	}
	f.mu.Unlock()
	// notify after the durable write, with no lock held, so a listener may
	// re-enter the store
	f.memory.SetToken(token)
}

func (f *FileStore) Token() (*oauth2.Token, bool) {
	if token, ok := f.memory.Token(); ok {
		return token, true
	}
	if restored := f.restore(); restored != nil {
		return restored, true
	}
	return nil, false
}

func (f *FileStore) AccessToken() string {
	if access := f.memory.AccessToken(); access != "" {
		return access
	}
	if restored := f.restore(); restored != nil {
		return restored.AccessToken
	}
	return ""
}

func (f *FileStore) Clear() {
	f.SetToken(nil)
}

func (f *FileStore) Subscribe(listener Listener) func() {
	return f.memory.Subscribe(listener)
}

// restore loads the persisted pair back into the memory store. It re-checks
// memory under the lock so concurrent readers load at most once, and adopts
// the pair without notification.
func (f *FileStore) restore() *oauth2.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token, ok := f.memory.Token(); ok {
		return token
	}
	token, err := f.load()
	if err != nil || token == nil {
		return nil
	}
	f.memory.adopt(token)
	return token
}

func (f *FileStore) removeLocked() {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		f.logger.Warn("removing credential file failed", zap.String("path", f.path), zap.Error(err))
	}
}

func (f *FileStore) save(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(&fileSnapshot{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) load() (*oauth2.Token, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	var snap fileSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.AccessToken == "" {
		return nil, nil
	}
	return &oauth2.Token{
		AccessToken:  snap.AccessToken,
		RefreshToken: snap.RefreshToken,
		TokenType:    "Bearer",
	}, nil
}
