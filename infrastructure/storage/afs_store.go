// Package storage reads and writes input and output documents through the
// abstract file storage layer, so locations may be local paths or any URL
// scheme registered with afs.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/judgers-dev/judgers/internal/ports"
)

var _ ports.DocumentStore = (*Store)(nil)

// Store implements ports.DocumentStore on top of afs.
type Store struct {
	fs afs.Service
	mu sync.RWMutex
}

// New creates a Store backed by the default afs service.
func New() *Store {
	return &Store{fs: afs.New()}
}

// Normalize turns a relative or absolute local path into a file URL and
// leaves URLs with an explicit scheme untouched.
func Normalize(location string) string {
	return url.Normalize(location, file.Scheme)
}

// Read returns the contents of the document at location. A missing document
// yields a *ports.StorageError wrapping ports.ErrDocumentNotFound.
func (s *Store) Read(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, ports.NewStorageError(location, "read", fmt.Errorf("location cannot be empty"))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	target := Normalize(location)
	exists, err := s.fs.Exists(ctx, target)
	if err != nil {
		return nil, ports.NewStorageError(location, "read", fmt.Errorf("failed to check if document exists: %w", err))
	}
	if !exists {
		return nil, ports.NewStorageError(location, "read", ports.ErrDocumentNotFound)
	}

	data, err := s.fs.DownloadWithURL(ctx, target)
	if err != nil {
		return nil, ports.NewStorageError(location, "read", err)
	}
	return data, nil
}

// Write replaces the document at location with data, creating missing
// parent folders.
func (s *Store) Write(ctx context.Context, location string, data []byte) error {
	if location == "" {
		return ports.NewStorageError(location, "write", fmt.Errorf("location cannot be empty"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := Normalize(location)
	parent, _ := url.Split(target, file.Scheme)
	if parent != "" {
		exists, err := s.fs.Exists(ctx, parent)
		if err != nil {
			return ports.NewStorageError(location, "write", fmt.Errorf("failed to check parent folder: %w", err))
		}
		if !exists {
			if err := s.fs.Create(ctx, parent, file.DefaultDirOsMode, true); err != nil {
				return ports.NewStorageError(location, "write", fmt.Errorf("failed to create parent folder: %w", err))
			}
		}
	}

	if err := s.fs.Upload(ctx, target, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return ports.NewStorageError(location, "write", err)
	}
	return nil
}
