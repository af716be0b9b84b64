package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fdg312/diet-hub/internal/storage"
	"github.com/google/uuid"
)

func (m *MemoryStorage) CreateDiet(ctx context.Context, diet *storage.Diet, list *storage.ShoppingList) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if diet.ID == uuid.Nil {
		diet.ID = uuid.New()
	}
	now := time.Now().UTC()
	diet.CreatedAt = now
	diet.UpdatedAt = now
	m.diets[diet.ID] = cloneDiet(*diet)

	if list != nil {
		if list.ID == uuid.Nil {
			list.ID = uuid.New()
		}
		list.DietID = diet.ID
		list.CreatedAt = now
		stored := *list
		stored.Items = append([]string(nil), list.Items...)
		m.shoppingLists[list.ID] = stored
	}

	return nil
}

func (m *MemoryStorage) GetDiet(ctx context.Context, id uuid.UUID) (*storage.Diet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.diets[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneDiet(d)
	return &out, nil
}

func (m *MemoryStorage) ListDiets(ctx context.Context, userID string) ([]storage.Diet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	diets := []storage.Diet{}
	for _, d := range m.diets {
		if d.UserID == userID {
			diets = append(diets, cloneDiet(d))
		}
	}
	sort.Slice(diets, func(i, j int) bool {
		return diets[i].CreatedAt.After(diets[j].CreatedAt)
	})

	return diets, nil
}

func (m *MemoryStorage) DeleteDiet(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.diets[id]; !ok {
		return ErrNotFound
	}
	delete(m.diets, id)
	delete(m.files, id)
	for listID, l := range m.shoppingLists {
		if l.DietID == id {
			delete(m.shoppingLists, listID)
		}
	}

	return nil
}

func (m *MemoryStorage) ListDietDates(ctx context.Context, userID string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out [][]string
	for _, d := range m.diets {
		if d.UserID == userID {
			out = append(out, d.Dates())
		}
	}

	return out, nil
}

func cloneDiet(d storage.Diet) storage.Diet {
	days := make([]storage.DietDay, len(d.Days))
	for i, day := range d.Days {
		days[i] = storage.DietDay{
			Date:  day.Date,
			Meals: append([]storage.DietMeal(nil), day.Meals...),
		}
	}
	d.Days = days
	return d
}
