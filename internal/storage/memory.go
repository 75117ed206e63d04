package storage

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryStorage keeps values in process memory. It is safe for concurrent
// use.
type MemoryStorage struct {
	m *xsync.MapOf[string, string]
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{m: xsync.NewMapOf[string, string]()}
}

func (s *MemoryStorage) Get(ctx context.Context, key string) (string, error) {
	v, ok := s.m.Load(key)
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStorage) Set(ctx context.Context, key, value string) error {
	s.m.Store(key, value)
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
