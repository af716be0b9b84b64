package dietimport

import (
	"strings"
	"testing"
)

func standardIndex() ColumnIndex {
	idx, _ := ResolveColumns(standardHeader, DefaultColumns())
	return idx
}

func TestValidateRow_Valid(t *testing.T) {
	row := mealRow("26.01.2025, 6:30", "Owsianka", "Ugotuj płatki", "450,30,12,50", "płatki, mleko")
	errs, warnings := ValidateRow(row, 2, standardIndex(), DefaultColumns())
	if len(errs) != 0 || len(warnings) != 0 {
		t.Fatalf("expected clean row, got errors=%v warnings=%v", errs, warnings)
	}
}

func TestValidateRow_FieldRules(t *testing.T) {
	tests := []struct {
		name     string
		row      []string
		rowNum   int
		column   string
		severity Severity
	}{
		{"bad date", mealRow("2025-01-26 06:30", "A", "B", "450,30,12,50", "x"), 2, KeyDateTime, SeverityError},
		{"empty name", mealRow("26.01.2025, 6:30", "", "B", "450,30,12,50", "x"), 2, KeyMealName, SeverityError},
		{"long name", mealRow("26.01.2025, 6:30", strings.Repeat("a", 101), "B", "450,30,12,50", "x"), 2, KeyMealName, SeverityWarning},
		{"empty instructions", mealRow("26.01.2025, 6:30", "A", "", "450,30,12,50", "x"), 2, KeyInstructions, SeverityWarning},
		{"empty nutrition", mealRow("26.01.2025, 6:30", "A", "B", "", "x"), 2, KeyNutritionalValues, SeverityError},
		{"three tokens", mealRow("26.01.2025, 6:30", "A", "B", "450,30,12", "x"), 2, KeyNutritionalValues, SeverityError},
		{"high calories", mealRow("26.01.2025, 6:30", "A", "B", "2000,30,12,50", "x"), 2, KeyNutritionalValues, SeverityWarning},
		{"low calories", mealRow("26.01.2025, 6:30", "A", "B", "99,30,12,50", "x"), 2, KeyNutritionalValues, SeverityWarning},
		{"empty shopping list", mealRow("26.01.2025, 6:30", "A", "B", "450,30,12,50", ""), 2, KeyShoppingList, SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, warnings := ValidateRow(tt.row, tt.rowNum, standardIndex(), DefaultColumns())
			all := append(append([]Finding{}, errs...), warnings...)
			if len(all) != 1 {
				t.Fatalf("expected exactly one finding, got %v", all)
			}
			f := all[0]
			if f.Column != tt.column || f.Severity != tt.severity || f.Row != tt.rowNum {
				t.Errorf("unexpected finding %+v", f)
			}
		})
	}
}

func TestValidateRow_NameAtLimitIsFine(t *testing.T) {
	row := mealRow("26.01.2025, 6:30", strings.Repeat("ż", 100), "B", "450,30,12,50", "x")
	errs, warnings := ValidateRow(row, 2, standardIndex(), DefaultColumns())
	if len(errs)+len(warnings) != 0 {
		t.Errorf("100 characters must be accepted, got %v %v", errs, warnings)
	}
}

func TestValidateRow_CaloriesBoundsInclusive(t *testing.T) {
	for _, nv := range []string{"100,1,1,1", "1500,1,1,1"} {
		_, warnings := ValidateRow(mealRow("26.01.2025, 6:30", "A", "B", nv, "x"), 2, standardIndex(), DefaultColumns())
		if len(warnings) != 0 {
			t.Errorf("%s: expected no warning, got %v", nv, warnings)
		}
	}
}

func TestValidateRow_FirstDataRowShoppingListExempt(t *testing.T) {
	row := mealRow("26.01.2025, 6:30", "A", "B", "450,30,12,50", "")
	_, warnings := ValidateRow(row, 1, standardIndex(), DefaultColumns())
	if len(findingsFor(warnings, KeyShoppingList)) != 0 {
		t.Errorf("row 1 must be exempt from shopping list check, got %v", warnings)
	}
}

func TestValidateRow_ShortRow(t *testing.T) {
	row := []string{"26.01.2025, 6:30", "A"}
	errs, warnings := ValidateRow(row, 3, standardIndex(), DefaultColumns())
	if len(findingsFor(errs, KeyNutritionalValues)) != 1 {
		t.Errorf("expected nutrition error for missing cell, got %v", errs)
	}
	if len(findingsFor(warnings, KeyInstructions)) != 1 || len(findingsFor(warnings, KeyShoppingList)) != 1 {
		t.Errorf("expected instructions and shopping list warnings, got %v", warnings)
	}
}

func TestValidateRow_CustomLimits(t *testing.T) {
	limits := DefaultLimits()
	limits.CaloriesMax = 3000
	_, warnings := ValidateRow(mealRow("26.01.2025, 6:30", "A", "B", "2000,30,12,50", "x"), 2, standardIndex(), Columns(limits))
	if len(warnings) != 0 {
		t.Errorf("expected no warning with raised limit, got %v", warnings)
	}
}
