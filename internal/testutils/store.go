package testutils

import (
	"context"
	"sync"

	"github.com/judgers-dev/judgers/internal/ports"
)

var _ ports.DocumentStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory ports.DocumentStore keyed by location.
type MemoryStore struct {
	mu    sync.Mutex
	docs  map[string][]byte
	reads map[string]int
}

// NewMemoryStore creates a store holding the given documents.
func NewMemoryStore(docs map[string]string) *MemoryStore {
	s := &MemoryStore{docs: make(map[string][]byte), reads: make(map[string]int)}
	for k, v := range docs {
		s.docs[k] = []byte(v)
	}
	return s
}

// Read implements ports.DocumentStore.
func (s *MemoryStore) Read(_ context.Context, location string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads[location]++
	data, ok := s.docs[location]
	if !ok {
		return nil, ports.NewStorageError(location, "read", ports.ErrDocumentNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Write implements ports.DocumentStore.
func (s *MemoryStore) Write(_ context.Context, location string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[location] = append([]byte(nil), data...)
	return nil
}

// Get returns the document at location and whether it exists.
func (s *MemoryStore) Get(location string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[location]
	return data, ok
}

// Reads returns how many times location was read.
func (s *MemoryStore) Reads(location string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[location]
}
