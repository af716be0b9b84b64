package blob

import (
	"context"
	"fmt"
	"net/url"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local tooling.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (m *MemoryStore) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return int64(len(data)), nil
}

func (m *MemoryStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), obj.data...), nil
}

func (m *MemoryStore) PresignGet(ctx context.Context, key string, ttlSeconds int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.objects[key]; !ok {
		return "", ErrObjectNotFound
	}
	return fmt.Sprintf("memory://%s?ttl=%d", url.PathEscape(key), ttlSeconds), nil
}

func (m *MemoryStore) DeleteObject(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	return nil
}

// Len reports the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
