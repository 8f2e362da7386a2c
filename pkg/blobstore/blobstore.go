// Package blobstore abstracts where accepted upload bytes live. The image
// service stores objects under opaque generated names; the backend returns
// the public URL the object is served from.
package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists and removes binary objects by name.
type Store interface {
	// Put writes the object and returns its public URL.
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	// Remove deletes the object. Removing a missing object is not an error.
	Remove(ctx context.Context, name string) error
}

// FSStore stores objects as files under a local directory, served from
// baseURL/uploads/<name>.
type FSStore struct {
	dir     string
	baseURL string
}

// NewFSStore creates the upload directory if needed and returns a store
// over it.
func NewFSStore(dir, baseURL string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &FSStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Put writes the object to disk.
func (s *FSStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object %s: %w", name, err)
	}
	return s.baseURL + "/uploads/" + filepath.Base(name), nil
}

// Remove deletes the object file if present.
func (s *FSStore) Remove(_ context.Context, name string) error {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove object %s: %w", name, err)
	}
	return nil
}

// Dir returns the directory objects are written to, for static serving.
func (s *FSStore) Dir() string {
	return s.dir
}

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	objects map[string][]byte
	baseURL string
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Put records the object in memory.
func (s *MemoryStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[name] = buf
	return s.baseURL + "/uploads/" + name, nil
}

// Remove forgets the object.
func (s *MemoryStore) Remove(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, name)
	return nil
}

// Len reports how many objects are held. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Has reports whether an object with the given name is held. Test helper.
func (s *MemoryStore) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[name]
	return ok
}
