package dietimport

import (
	"fmt"
	"unicode/utf8"
)

// Limits holds the soft thresholds used by the row rules and the
// consistency check.
type Limits struct {
	MealNameMaxLen int
	CaloriesMin    float64
	CaloriesMax    float64
	MaxMealsPerDay int
}

func DefaultLimits() Limits {
	return Limits{
		MealNameMaxLen: 100,
		CaloriesMin:    100,
		CaloriesMax:    1500,
		MaxMealsPerDay: 7,
	}
}

// shoppingListRow is the only data row expected to carry the shopping list.
const shoppingListRow = 1

func dateTimeRule(value string, row int) *Finding {
	if _, ok := ParseDateTime(value); !ok {
		return &Finding{
			Row:      row,
			Column:   KeyDateTime,
			Message:  fmt.Sprintf("invalid date and time format (expected %s)", DateTimeLayout),
			Severity: SeverityError,
		}
	}
	return nil
}

func mealNameRule(maxLen int) RuleFunc {
	return func(value string, row int) *Finding {
		if value == "" {
			return &Finding{Row: row, Column: KeyMealName, Message: "meal name is missing", Severity: SeverityError}
		}
		if maxLen > 0 && utf8.RuneCountInString(value) > maxLen {
			return &Finding{
				Row:      row,
				Column:   KeyMealName,
				Message:  fmt.Sprintf("meal name is very long (over %d characters)", maxLen),
				Severity: SeverityWarning,
			}
		}
		return nil
	}
}

func instructionsRule(value string, row int) *Finding {
	if value == "" {
		return &Finding{Row: row, Column: KeyInstructions, Message: "preparation instructions are missing", Severity: SeverityWarning}
	}
	return nil
}

func nutritionalValuesRule(minKcal, maxKcal float64) RuleFunc {
	return func(value string, row int) *Finding {
		if value == "" {
			return &Finding{Row: row, Column: KeyNutritionalValues, Message: "nutritional values are missing", Severity: SeverityError}
		}
		nv, err := ParseNutritionalValues(value)
		if err != nil {
			return &Finding{
				Row:      row,
				Column:   KeyNutritionalValues,
				Message:  fmt.Sprintf("invalid nutritional values format (expected calories,protein,fat,carbs): %v", err),
				Severity: SeverityError,
			}
		}
		if nv.Calories < minKcal || nv.Calories > maxKcal {
			return &Finding{
				Row:      row,
				Column:   KeyNutritionalValues,
				Message:  fmt.Sprintf("unusual meal calories %g kcal (expected between %g and %g kcal)", nv.Calories, minKcal, maxKcal),
				Severity: SeverityWarning,
			}
		}
		return nil
	}
}

func shoppingListRule(value string, row int) *Finding {
	if row == shoppingListRow {
		return nil
	}
	if value == "" {
		return &Finding{Row: row, Column: KeyShoppingList, Message: "shopping list is missing", Severity: SeverityWarning}
	}
	return nil
}

// ValidateRow applies the rule of every resolved column to one data row.
// Columns are visited in definition order; unresolved columns and columns
// without a rule are skipped.
func ValidateRow(row []string, rowNum int, idx ColumnIndex, defs []ColumnDefinition) (errs []Finding, warnings []Finding) {
	for _, def := range defs {
		if def.Validate == nil {
			continue
		}
		if _, ok := idx[def.Key]; !ok {
			continue
		}
		f := def.Validate(idx.Cell(row, def.Key), rowNum)
		if f == nil {
			continue
		}
		if f.Severity == SeverityError {
			errs = append(errs, *f)
		} else {
			warnings = append(warnings, *f)
		}
	}
	return errs, warnings
}
