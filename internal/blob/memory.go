package blob

import (
	"context"
	"sync"
)

// MemoryStore keeps objects in process memory. Used when no blob
// endpoint is configured (development) and by tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Put stores the object under a mem:// URL.
func (s *MemoryStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	url := "mem://" + key
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[url] = append([]byte(nil), data...)
	return url, nil
}

// Delete removes the object; removing a missing object is a no-op.
func (s *MemoryStore) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, url)
	return nil
}

// Len reports the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Has reports whether an object exists at url.
func (s *MemoryStore) Has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[url]
	return ok
}
