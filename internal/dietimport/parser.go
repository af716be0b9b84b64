package dietimport

import (
	"errors"
	"strings"
)

var ErrNoDateTimeColumn = errors.New("dateTime column is not resolved")

// Parse groups data rows into days and meals and extracts the shopping list.
// It is meant for sheets that already passed validation.
//
// Days are opened in row order whenever the date changes, so rows of the same
// date that are not contiguous end up in separate days.
func Parse(rows [][]string, idx ColumnIndex) (ParsedExcelResult, error) {
	if _, ok := idx[KeyDateTime]; !ok {
		return ParsedExcelResult{}, ErrNoDateTimeColumn
	}

	result := ParsedExcelResult{
		Days:         []ParsedDay{},
		ShoppingList: []string{},
	}
	if len(rows) > 1 {
		result.ShoppingList = splitShoppingList(idx.Cell(rows[1], KeyShoppingList))
	}

	var current *ParsedDay
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		cell := idx.Cell(row, KeyDateTime)
		if cell == "" {
			continue
		}

		date, clock := splitDateTime(cell)
		if current == nil || current.Date != date {
			if current != nil {
				result.Days = append(result.Days, *current)
			}
			current = &ParsedDay{Date: date, Meals: []ParsedMeal{}}
		}

		current.Meals = append(current.Meals, ParsedMeal{
			Time:              clock,
			MealType:          ClassifyMealType(hourOf(clock)),
			Name:              idx.Cell(row, KeyMealName),
			Instructions:      idx.Cell(row, KeyInstructions),
			NutritionalValues: parseNutritionalValuesLenient(idx.Cell(row, KeyNutritionalValues)),
		})
	}
	if current != nil {
		result.Days = append(result.Days, *current)
	}

	return result, nil
}

// splitShoppingList splits a comma separated list, trimming items and
// dropping empty and repeated ones.
func splitShoppingList(text string) []string {
	items := []string{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(text, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		items = append(items, item)
	}
	return items
}
