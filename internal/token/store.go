// Package token persists the bearer token used against the rewards backend.
// The token lives on disk under a fixed key file, mirroring the mobile
// client's local device storage.
package token

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultFileName is the fixed key under which the auth token is stored
const DefaultFileName = "rez_auth_token"

// Store is a file-backed bearer token store, safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	path string
}

// NewStore creates a token store rooted at dir. The directory is created
// if it does not exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create token directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, DefaultFileName)}, nil
}

// Token returns the stored bearer token, or "" when none is stored.
func (s *Store) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save stores the bearer token.
func (s *Store) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Clear removes the stored credentials. Called from the shared HTTP client
// when the backend answers 401; no re-login flow is wired at this layer.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
