package memory

import (
	"context"
	"time"

	"github.com/fdg312/diet-hub/internal/storage"
	"github.com/google/uuid"
)

func (m *MemoryStorage) PutDietFile(ctx context.Context, file *storage.DietFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.diets[file.DietID]; !ok {
		return ErrNotFound
	}
	file.CreatedAt = time.Now().UTC()
	stored := *file
	stored.Data = append([]byte(nil), file.Data...)
	m.files[file.DietID] = stored

	return nil
}

func (m *MemoryStorage) GetDietFile(ctx context.Context, dietID uuid.UUID) (*storage.DietFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[dietID]
	if !ok {
		return nil, ErrNotFound
	}

	return &f, nil
}
