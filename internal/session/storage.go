package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenKey is the single persisted-state key. The browser front-end keeps
// the same key in local storage; any client that wants demo-account
// behavior to survive a restart must preserve the stored value verbatim.
const TokenKey = "auth-token"

// TokenStorage persists the opaque session token between processes. It is
// read once at startup and written on login/logout only; concurrent
// processes can diverge silently (known limitation, not remediated).
type TokenStorage interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStorage keeps the token in a single file named after TokenKey.
type FileTokenStorage struct {
	path string
}

// NewFileTokenStorage creates a FileTokenStorage under dir
func NewFileTokenStorage(dir string) (*FileTokenStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create token dir: %w", err)
	}
	return &FileTokenStorage{path: filepath.Join(dir, TokenKey)}, nil
}

// Load returns the stored token, or "" when none has been saved.
func (s *FileTokenStorage) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return string(data), nil
}

// Save writes the token verbatim.
func (s *FileTokenStorage) Save(token string) error {
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Clear removes the stored token; clearing an empty store is fine.
func (s *FileTokenStorage) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// MemoryTokenStorage is an in-process TokenStorage for tests and embedded
// use.
type MemoryTokenStorage struct {
	mu    sync.Mutex
	token string
}

func NewMemoryTokenStorage() *MemoryTokenStorage {
	return &MemoryTokenStorage{}
}

func (s *MemoryTokenStorage) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStorage) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
