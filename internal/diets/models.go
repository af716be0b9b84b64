package diets

import (
	"time"

	"github.com/fdg312/diet-hub/internal/dietimport"
	"github.com/fdg312/diet-hub/internal/storage"
	"github.com/google/uuid"
)

// Upload is a spreadsheet received from a client.
type Upload struct {
	FileName string
	Data     []byte
}

// DietDTO represents a stored diet in API responses
type DietDTO struct {
	ID        uuid.UUID         `json:"id"`
	UserID    string            `json:"user_id"`
	Days      []storage.DietDay `json:"days"`
	Metadata  MetadataDTO       `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type MetadataDTO struct {
	TotalDays int    `json:"total_days"`
	FileName  string `json:"file_name"`
	FileURL   string `json:"file_url,omitempty"`
}

// DietSummaryDTO is a list entry without the meal payload.
type DietSummaryDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	TotalDays int       `json:"total_days"`
	FileName  string    `json:"file_name"`
	CreatedAt time.Time `json:"created_at"`
}

type ShoppingListDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	DietID    uuid.UUID `json:"diet_id"`
	Items     []string  `json:"items"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// ImportResponse is returned by POST /v1/diets/import.
// Diet is nil when the file failed validation.
type ImportResponse struct {
	Diet         *DietDTO                    `json:"diet,omitempty"`
	ShoppingList *ShoppingListDTO            `json:"shopping_list,omitempty"`
	Validation   dietimport.ValidationResult `json:"validation"`
}

type DietsResponse struct {
	Diets []DietSummaryDTO `json:"diets"`
}

type ShoppingListsResponse struct {
	ShoppingLists []ShoppingListDTO `json:"shopping_lists"`
}

// FileDownload is either a redirect target (S3) or the file itself (local mode).
type FileDownload struct {
	RedirectURL string
	FileName    string
	ContentType string
	Data        []byte
}

func toDietDTO(d *storage.Diet) *DietDTO {
	days := d.Days
	if days == nil {
		days = []storage.DietDay{}
	}
	return &DietDTO{
		ID:     d.ID,
		UserID: d.UserID,
		Days:   days,
		Metadata: MetadataDTO{
			TotalDays: d.Metadata.TotalDays,
			FileName:  d.Metadata.FileName,
			FileURL:   d.Metadata.FileURL,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toSummaryDTO(d storage.Diet) DietSummaryDTO {
	dto := DietSummaryDTO{
		ID:        d.ID,
		UserID:    d.UserID,
		TotalDays: d.Metadata.TotalDays,
		FileName:  d.Metadata.FileName,
		CreatedAt: d.CreatedAt,
	}
	if len(d.Days) > 0 {
		dto.StartDate = d.Days[0].Date
		dto.EndDate = d.Days[len(d.Days)-1].Date
	}
	return dto
}

func toShoppingListDTO(l *storage.ShoppingList) *ShoppingListDTO {
	items := l.Items
	if items == nil {
		items = []string{}
	}
	return &ShoppingListDTO{
		ID:        l.ID,
		UserID:    l.UserID,
		DietID:    l.DietID,
		Items:     items,
		StartDate: l.StartDate,
		EndDate:   l.EndDate,
		CreatedAt: l.CreatedAt,
	}
}

// toDietDays converts parser output into the persisted shape.
func toDietDays(parsed []dietimport.ParsedDay) []storage.DietDay {
	days := make([]storage.DietDay, 0, len(parsed))
	for _, pd := range parsed {
		meals := make([]storage.DietMeal, 0, len(pd.Meals))
		for _, pm := range pd.Meals {
			meals = append(meals, storage.DietMeal{
				Time:         pm.Time,
				MealType:     string(pm.MealType),
				Name:         pm.Name,
				Instructions: pm.Instructions,
				NutritionalValues: storage.NutritionalValues{
					Calories: pm.NutritionalValues.Calories,
					Protein:  pm.NutritionalValues.Protein,
					Fat:      pm.NutritionalValues.Fat,
					Carbs:    pm.NutritionalValues.Carbs,
				},
			})
		}
		days = append(days, storage.DietDay{Date: pd.Date, Meals: meals})
	}
	return days
}
