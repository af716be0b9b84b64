package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/fdg312/diet-hub/internal/storage"
	"github.com/google/uuid"
)

func sampleDiet(userID string, dates ...string) *storage.Diet {
	days := make([]storage.DietDay, 0, len(dates))
	for _, d := range dates {
		days = append(days, storage.DietDay{
			Date: d,
			Meals: []storage.DietMeal{{
				Time:     "8:00",
				MealType: "breakfast",
				Name:     "Owsianka",
			}},
		})
	}
	return &storage.Diet{
		UserID:   userID,
		Days:     days,
		Metadata: storage.DietMetadata{TotalDays: len(days), FileName: "diet.xlsx"},
	}
}

func TestCreateAndGetDiet(t *testing.T) {
	ctx := context.Background()
	s := New()

	diet := sampleDiet("u1", "26.01.2025", "27.01.2025")
	list := &storage.ShoppingList{UserID: "u1", Items: []string{"mleko"}, StartDate: "26.01.2025", EndDate: "27.01.2025"}
	if err := s.CreateDiet(ctx, diet, list); err != nil {
		t.Fatalf("CreateDiet: %v", err)
	}
	if diet.ID == uuid.Nil || diet.CreatedAt.IsZero() {
		t.Fatal("expected ID and CreatedAt to be assigned")
	}
	if list.DietID != diet.ID {
		t.Errorf("shopping list must reference diet, got %s", list.DietID)
	}

	got, err := s.GetDiet(ctx, diet.ID)
	if err != nil {
		t.Fatalf("GetDiet: %v", err)
	}
	if !reflect.DeepEqual(got.Dates(), []string{"26.01.2025", "27.01.2025"}) {
		t.Errorf("unexpected dates %v", got.Dates())
	}

	// mutating the returned copy must not affect stored state
	got.Days[0].Meals[0].Name = "changed"
	again, _ := s.GetDiet(ctx, diet.ID)
	if again.Days[0].Meals[0].Name != "Owsianka" {
		t.Error("storage returned shared meal slice")
	}

	sl, err := s.GetShoppingListByDiet(ctx, diet.ID)
	if err != nil {
		t.Fatalf("GetShoppingListByDiet: %v", err)
	}
	if !reflect.DeepEqual(sl.Items, []string{"mleko"}) {
		t.Errorf("unexpected items %v", sl.Items)
	}
}

func TestGetDiet_NotFound(t *testing.T) {
	_, err := New().GetDiet(context.Background(), uuid.New())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListDietsAndDates(t *testing.T) {
	ctx := context.Background()
	s := New()

	_ = s.CreateDiet(ctx, sampleDiet("u1", "26.01.2025"), nil)
	_ = s.CreateDiet(ctx, sampleDiet("u1", "27.01.2025", "28.01.2025"), nil)
	_ = s.CreateDiet(ctx, sampleDiet("u2", "26.01.2025"), nil)

	diets, err := s.ListDiets(ctx, "u1")
	if err != nil {
		t.Fatalf("ListDiets: %v", err)
	}
	if len(diets) != 2 {
		t.Fatalf("expected 2 diets for u1, got %d", len(diets))
	}

	dates, err := s.ListDietDates(ctx, "u1")
	if err != nil {
		t.Fatalf("ListDietDates: %v", err)
	}
	total := 0
	for _, d := range dates {
		total += len(d)
	}
	if len(dates) != 2 || total != 3 {
		t.Errorf("unexpected dates %v", dates)
	}

	none, _ := s.ListDiets(ctx, "nobody")
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", none)
	}
}

func TestDeleteDietCascades(t *testing.T) {
	ctx := context.Background()
	s := New()

	diet := sampleDiet("u1", "26.01.2025")
	_ = s.CreateDiet(ctx, diet, &storage.ShoppingList{UserID: "u1", Items: []string{"x"}})
	if err := s.PutDietFile(ctx, &storage.DietFile{DietID: diet.ID, Data: []byte("xlsx")}); err != nil {
		t.Fatalf("PutDietFile: %v", err)
	}

	if err := s.DeleteDiet(ctx, diet.ID); err != nil {
		t.Fatalf("DeleteDiet: %v", err)
	}
	if _, err := s.GetShoppingListByDiet(ctx, diet.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("shopping list must be removed, got %v", err)
	}
	if _, err := s.GetDietFile(ctx, diet.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("file must be removed, got %v", err)
	}
	if err := s.DeleteDiet(ctx, diet.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete must report ErrNotFound, got %v", err)
	}
}

func TestPutDietFile_UnknownDiet(t *testing.T) {
	err := New().PutDietFile(context.Background(), &storage.DietFile{DietID: uuid.New()})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListShoppingLists(t *testing.T) {
	ctx := context.Background()
	s := New()

	_ = s.CreateDiet(ctx, sampleDiet("u1", "26.01.2025"), &storage.ShoppingList{UserID: "u1", Items: []string{"a"}})
	_ = s.CreateDiet(ctx, sampleDiet("u2", "26.01.2025"), &storage.ShoppingList{UserID: "u2", Items: []string{"b"}})

	lists, err := s.ListShoppingLists(ctx, "u1")
	if err != nil {
		t.Fatalf("ListShoppingLists: %v", err)
	}
	if len(lists) != 1 || lists[0].Items[0] != "a" {
		t.Errorf("unexpected lists %+v", lists)
	}
}
