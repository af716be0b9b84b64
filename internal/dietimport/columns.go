package dietimport

import (
	"errors"
	"strings"
)

var ErrMissingColumns = errors.New("missing required columns")

// Logical column keys.
const (
	KeyDateTime          = "dateTime"
	KeyMealName          = "mealName"
	KeyInstructions      = "instructions"
	KeyNutritionalValues = "nutritionalValues"
	KeyShoppingList      = "shoppingList"
)

// RuleFunc validates one cell. row is the sheet row index of the cell.
// A nil return means the cell is acceptable.
type RuleFunc func(value string, row int) *Finding

// ColumnDefinition describes a logical column and how to find it in a header row.
type ColumnDefinition struct {
	Key      string
	Aliases  []string
	Required bool
	Validate RuleFunc
}

// ColumnIndex maps a logical key to a zero-based physical column.
type ColumnIndex map[string]int

// Cell returns the trimmed value of the logical column in row, or "" when the
// column is unresolved or the row is shorter than the column position.
func (idx ColumnIndex) Cell(row []string, key string) string {
	i, ok := idx[key]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// DefaultColumns returns the column table with default limits.
func DefaultColumns() []ColumnDefinition {
	return Columns(DefaultLimits())
}

// Columns returns the column table in validation order, with rules bound to limits.
func Columns(l Limits) []ColumnDefinition {
	return []ColumnDefinition{
		{
			Key:      KeyDateTime,
			Aliases:  []string{"data i godzina", "data igodzina", "data", "datetime", "date"},
			Required: true,
			Validate: dateTimeRule,
		},
		{
			Key:      KeyMealName,
			Aliases:  []string{"nazwa posilku", "nazwa posiłku", "posilek", "posiłek", "meal name", "meal"},
			Required: true,
			Validate: mealNameRule(l.MealNameMaxLen),
		},
		{
			Key:      KeyInstructions,
			Aliases:  []string{"sposob przygotowania", "sposób przygotowania", "przygotowanie", "instructions", "preparation"},
			Required: true,
			Validate: instructionsRule,
		},
		{
			Key:      KeyNutritionalValues,
			Aliases:  []string{"wartosci odzywcze", "wartości odżywcze", "kalorie", "calories", "nutritional values"},
			Required: true,
			Validate: nutritionalValuesRule(l.CaloriesMin, l.CaloriesMax),
		},
		{
			Key:      KeyShoppingList,
			Aliases:  []string{"lista zakupow", "lista zakupów", "zakupy", "shopping list", "ingredients"},
			Required: true,
			Validate: shoppingListRule,
		},
	}
}

// ResolveColumns finds the physical column of every definition. A header cell
// matches when its normalized text contains any normalized alias; the lowest
// matching index wins. Required definitions without a match are returned in
// missing, in definition order.
func ResolveColumns(header []string, defs []ColumnDefinition) (ColumnIndex, []string) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = Normalize(h)
	}

	idx := make(ColumnIndex, len(defs))
	var missing []string
	for _, def := range defs {
		col := findColumn(normalized, def.Aliases)
		if col >= 0 {
			idx[def.Key] = col
			continue
		}
		if def.Required {
			missing = append(missing, def.Key)
		}
	}
	return idx, missing
}

func findColumn(normalizedHeader []string, aliases []string) int {
	normAliases := make([]string, 0, len(aliases))
	for _, a := range aliases {
		if n := Normalize(a); n != "" {
			normAliases = append(normAliases, n)
		}
	}

	for i, h := range normalizedHeader {
		if h == "" {
			continue
		}
		for _, a := range normAliases {
			if strings.Contains(h, a) {
				return i
			}
		}
	}
	return -1
}
