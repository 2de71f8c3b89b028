package client

import (
	"Foodies-Backend/domain"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type (
	// Auth is what survives a restart: the token and the user it belongs to.
	Auth struct {
		Token string               `json:"token"`
		User  *domain.UserResponse `json:"user"`
	}

	Store interface {
		Load() (Auth, error)
		Save(auth Auth) error
		Clear() error
	}

	// FileStore persists Auth as JSON. A missing file is an empty Auth.
	FileStore struct {
		mu   sync.Mutex
		path string
	}
)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (Auth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Auth{}, nil
	}
	if err != nil {
		return Auth{}, fmt.Errorf("read auth file: %w", err)
	}
	var auth Auth
	if err := json.Unmarshal(raw, &auth); err != nil {
		return Auth{}, fmt.Errorf("decode auth file: %w", err)
	}
	return auth, nil
}

func (s *FileStore) Save(auth Auth) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(auth)
	if err != nil {
		return fmt.Errorf("encode auth: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create auth dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write auth file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove auth file: %w", err)
	}
	return nil
}
