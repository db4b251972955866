package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LocalFileStore keeps blobs on disk under one directory. Default when no
// bucket is configured; also what dev setups use.
type LocalFileStore struct {
	dir string
}

func InitLocalFileStore(dir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("creating file dir: %w", err)
	}
	return &LocalFileStore{dir: dir}, nil
}

func (s *LocalFileStore) path(key string) (string, error) {
	//keys are caller-controlled; keep them inside the store dir
	clean := filepath.Clean(key)
	if strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid file key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}

func (s *LocalFileStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (s *LocalFileStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0640)
}

// InMemoryFileStore backs tests.
type InMemoryFileStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func InitInMemoryFileStore() *InMemoryFileStore {
	return &InMemoryFileStore{blobs: make(map[string][]byte)}
}

func (s *InMemoryFileStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, found := s.blobs[key]
	if !found {
		return nil, fmt.Errorf("no blob for key %q", key)
	}
	return data, nil
}

func (s *InMemoryFileStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}
