package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound возвращается бэкендами, когда запись не найдена
var ErrNotFound = errors.New("not found")

// NutritionalValues - КБЖУ одного приёма пищи
type NutritionalValues struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// DietMeal - приём пищи внутри дня диеты
type DietMeal struct {
	Time              string            `json:"time"`
	MealType          string            `json:"meal_type"`
	Name              string            `json:"name"`
	Instructions      string            `json:"instructions"`
	NutritionalValues NutritionalValues `json:"nutritional_values"`
}

// DietDay - день диеты (дата в формате DD.MM.YYYY)
type DietDay struct {
	Date  string     `json:"date"`
	Meals []DietMeal `json:"meals"`
}

// DietMetadata - сведения об исходном файле
type DietMetadata struct {
	TotalDays int
	FileName  string
	FileURL   string
	ObjectKey string // ключ в S3, пустой в local режиме
}

// Diet - импортированная диета пользователя
type Diet struct {
	ID        uuid.UUID
	UserID    string
	Days      []DietDay // хранится как JSONB
	Metadata  DietMetadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Dates возвращает даты всех дней диеты в исходном порядке
func (d Diet) Dates() []string {
	dates := make([]string, 0, len(d.Days))
	for _, day := range d.Days {
		dates = append(dates, day.Date)
	}
	return dates
}

// ShoppingList - список покупок, привязанный к диете
type ShoppingList struct {
	ID        uuid.UUID
	UserID    string
	DietID    uuid.UUID
	Items     []string
	StartDate string
	EndDate   string
	CreatedAt time.Time
}

// DietFile - исходный файл диеты (только для BLOB_MODE=local)
type DietFile struct {
	DietID      uuid.UUID
	FileName    string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// DietsStorage - интерфейс для работы с диетами
type DietsStorage interface {
	// CreateDiet сохраняет диету и (если передан) список покупок атомарно
	CreateDiet(ctx context.Context, diet *Diet, list *ShoppingList) error

	// GetDiet возвращает диету по ID
	GetDiet(ctx context.Context, id uuid.UUID) (*Diet, error)

	// ListDiets возвращает диеты пользователя, новые первыми
	ListDiets(ctx context.Context, userID string) ([]Diet, error)

	// DeleteDiet удаляет диету вместе со списками покупок и файлом
	DeleteDiet(ctx context.Context, id uuid.UUID) error

	// ListDietDates возвращает даты каждой сохранённой диеты пользователя
	ListDietDates(ctx context.Context, userID string) ([][]string, error)
}

// ShoppingListsStorage - интерфейс для работы со списками покупок
type ShoppingListsStorage interface {
	GetShoppingListByDiet(ctx context.Context, dietID uuid.UUID) (*ShoppingList, error)
	ListShoppingLists(ctx context.Context, userID string) ([]ShoppingList, error)
}

// DietFilesStorage - хранение исходных файлов в БД, когда S3 не настроен
type DietFilesStorage interface {
	PutDietFile(ctx context.Context, file *DietFile) error
	GetDietFile(ctx context.Context, dietID uuid.UUID) (*DietFile, error)
}

// Storage - общий интерфейс бэкенда (memory или postgres)
type Storage interface {
	DietsStorage
	ShoppingListsStorage
	DietFilesStorage

	// Close закрывает соединение (для Postgres)
	Close() error
}
