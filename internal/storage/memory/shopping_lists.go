package memory

import (
	"context"
	"sort"

	"github.com/fdg312/diet-hub/internal/storage"
	"github.com/google/uuid"
)

func (m *MemoryStorage) GetShoppingListByDiet(ctx context.Context, dietID uuid.UUID) (*storage.ShoppingList, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.shoppingLists {
		if l.DietID == dietID {
			l.Items = append([]string(nil), l.Items...)
			return &l, nil
		}
	}

	return nil, ErrNotFound
}

func (m *MemoryStorage) ListShoppingLists(ctx context.Context, userID string) ([]storage.ShoppingList, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lists := []storage.ShoppingList{}
	for _, l := range m.shoppingLists {
		if l.UserID == userID {
			l.Items = append([]string(nil), l.Items...)
			lists = append(lists, l)
		}
	}
	sort.Slice(lists, func(i, j int) bool {
		return lists[i].CreatedAt.After(lists[j].CreatedAt)
	})

	return lists, nil
}
