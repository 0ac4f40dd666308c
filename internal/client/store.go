// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// # Token Persistence

// ErrCorruptToken is returned by Load when stored state exists but cannot be
// read back as a token.
var ErrCorruptToken = errors.New("client: stored token is unreadable")

// TokenStore persists the single bearer token of a client.
//
// Load returns "" with a nil error when nothing is stored, and
// [ErrCorruptToken] when the stored state is unusable.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

const (
	configDirName = "bookshelf"
	tokenFileName = "session.json"
)

// DefaultTokenPath returns the token file under the user config directory,
// e.g. ~/.config/bookshelf/session.json on Linux.
func DefaultTokenPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("client: locate config dir: %w", err)
	}
	return filepath.Join(base, configDirName, tokenFileName), nil
}

// tokenFile is the on-disk shape: one well-known key.
type tokenFile struct {
	Token string `json:"token"`
}

// FileTokenStore keeps the token in a JSON file readable only by its owner.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a store backed by path. The file is created on
// the first Save.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (store *FileTokenStore) Load() (string, error) {
	raw, err := os.ReadFile(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("client: read token file: %w", err)
	}

	var stored tokenFile
	if err := json.Unmarshal(raw, &stored); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCorruptToken, err)
	}
	return stored.Token, nil
}

// Save writes the token through a temp file and rename so a crash never
// leaves a half-written file.
func (store *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err != nil {
		return fmt.Errorf("client: create config dir: %w", err)
	}

	raw, err := json.Marshal(tokenFile{Token: token})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(store.path), ".session-*")
	if err != nil {
		return fmt.Errorf("client: create temp token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("client: chmod token file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("client: write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("client: close token file: %w", err)
	}

	if err := os.Rename(tmp.Name(), store.path); err != nil {
		return fmt.Errorf("client: replace token file: %w", err)
	}
	return nil
}

func (store *FileTokenStore) Clear() error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("client: remove token file: %w", err)
	}
	return nil
}

// MemoryTokenStore keeps the token in process memory only.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (store *MemoryTokenStore) Load() (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.token, nil
}

func (store *MemoryTokenStore) Save(token string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.token = token
	return nil
}

func (store *MemoryTokenStore) Clear() error {
	return store.Save("")
}
