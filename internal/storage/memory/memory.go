package memory

import (
	"sync"

	"github.com/fdg312/diet-hub/internal/storage"
	"github.com/google/uuid"
)

// ErrNotFound возвращается, когда запись не найдена
var ErrNotFound = storage.ErrNotFound

// MemoryStorage - in-memory реализация storage.Storage
type MemoryStorage struct {
	mu            sync.RWMutex
	diets         map[uuid.UUID]storage.Diet
	shoppingLists map[uuid.UUID]storage.ShoppingList // key: list id
	files         map[uuid.UUID]storage.DietFile     // key: diet id
}

var _ storage.Storage = (*MemoryStorage)(nil)

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		diets:         make(map[uuid.UUID]storage.Diet),
		shoppingLists: make(map[uuid.UUID]storage.ShoppingList),
		files:         make(map[uuid.UUID]storage.DietFile),
	}
}

func (m *MemoryStorage) Close() error {
	return nil
}
