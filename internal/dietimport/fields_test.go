package dietimport

import (
	"errors"
	"testing"
)

func TestParseDateTime(t *testing.T) {
	valid := []string{
		"26.01.2025, 6:30",
		"26.01.2025, 06:30",
		"29.02.2024, 23:59",
		"01.12.2025, 0:00",
	}
	for _, v := range valid {
		if _, ok := ParseDateTime(v); !ok {
			t.Errorf("expected %q to parse", v)
		}
	}

	invalid := []string{
		"2025-01-26 06:30",
		"26.01.2025 6:30",
		"26.1.2025, 6:30",
		"26.01.2025, 6:3",
		"26.01.2025, 106:30",
		"31.04.2025, 8:00",
		"29.02.2025, 8:00",
		"26.13.2025, 8:00",
		"26.01.2025, 24:00",
		"26.01.2025, 7:60",
		" 26.01.2025, 6:30",
		"",
	}
	for _, v := range invalid {
		if _, ok := ParseDateTime(v); ok {
			t.Errorf("expected %q to be rejected", v)
		}
	}
}

func TestParseDateTime_Value(t *testing.T) {
	got, ok := ParseDateTime("26.01.2025, 6:30")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if got.Year() != 2025 || got.Month() != 1 || got.Day() != 26 || got.Hour() != 6 || got.Minute() != 30 {
		t.Errorf("unexpected parsed time %v", got)
	}
}

func TestClassifyMealType(t *testing.T) {
	tests := []struct {
		hour int
		want MealType
	}{
		{2, MealDinner},
		{3, MealBreakfast},
		{8, MealBreakfast},
		{9, MealSecondBreakfast},
		{11, MealSecondBreakfast},
		{12, MealLunch},
		{15, MealLunch},
		{16, MealSnack},
		{18, MealSnack},
		{19, MealDinner},
		{23, MealDinner},
		{0, MealDinner},
	}
	for _, tt := range tests {
		if got := ClassifyMealType(tt.hour); got != tt.want {
			t.Errorf("ClassifyMealType(%d) = %s, want %s", tt.hour, got, tt.want)
		}
	}
}

func TestClassifyMealType_Total(t *testing.T) {
	for h := 0; h < 24; h++ {
		switch ClassifyMealType(h) {
		case MealBreakfast, MealSecondBreakfast, MealLunch, MealSnack, MealDinner:
		default:
			t.Errorf("hour %d has no meal type", h)
		}
	}
}

func TestParseNutritionalValues(t *testing.T) {
	nv, err := ParseNutritionalValues("450,30,12,50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := NutritionalValues{Calories: 450, Protein: 30, Fat: 12, Carbs: 50}
	if nv != want {
		t.Errorf("got %+v, want %+v", nv, want)
	}

	nv, err = ParseNutritionalValues(" 450.5 , 30 ,12, 0 ")
	if err != nil {
		t.Fatalf("unexpected error with spaces: %v", err)
	}
	if nv.Calories != 450.5 || nv.Carbs != 0 {
		t.Errorf("unexpected values %+v", nv)
	}
}

func TestParseNutritionalValues_Invalid(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"450,30,12", ErrNutritionTokenCount},
		{"450,30,12,50,1", ErrNutritionTokenCount},
		{"450,abc,12,50", ErrNutritionNotNumber},
		{"450 kcal,30,12,50", ErrNutritionNotNumber},
		{"450,,12,50", ErrNutritionNotNumber},
		{"NaN,1,1,1", ErrNutritionNotNumber},
		{"450,-1,12,50", ErrNutritionNegative},
	}
	for _, tt := range tests {
		_, err := ParseNutritionalValues(tt.in)
		if !errors.Is(err, tt.want) {
			t.Errorf("ParseNutritionalValues(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestParseNutritionalValuesLenient(t *testing.T) {
	tests := []struct {
		in   string
		want NutritionalValues
	}{
		{"450,30,12,50", NutritionalValues{450, 30, 12, 50}},
		{"450,30,12", NutritionalValues{450, 30, 12, 0}},
		{"450 kcal, 30 g, 12 g, 50 g", NutritionalValues{450, 30, 12, 50}},
		{"abc,30", NutritionalValues{0, 30, 0, 0}},
		{"", NutritionalValues{}},
	}
	for _, tt := range tests {
		if got := parseNutritionalValuesLenient(tt.in); got != tt.want {
			t.Errorf("parseNutritionalValuesLenient(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestSplitDateTime(t *testing.T) {
	date, clock := splitDateTime("26.01.2025, 6:30")
	if date != "26.01.2025" || clock != "6:30" {
		t.Errorf("got date=%q time=%q", date, clock)
	}
	if hourOf(clock) != 6 {
		t.Errorf("expected hour 6, got %d", hourOf(clock))
	}
	if hourOf("") != -1 {
		t.Errorf("expected -1 for empty time")
	}
}
