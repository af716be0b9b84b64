package dietimport

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is the human form of the accepted dateTime cell format.
const DateTimeLayout = "DD.MM.YYYY, H:MM"

var (
	dateTimePattern   = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4}), (\d{1,2}):(\d{2})$`)
	leadingNumberExpr = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)
	numberExpr        = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
)

var (
	ErrNutritionTokenCount = errors.New("expected 4 comma separated values")
	ErrNutritionNotNumber  = errors.New("value is not a number")
	ErrNutritionNegative   = errors.New("value must not be negative")
)

// ParseDateTime parses a "DD.MM.YYYY, H:MM" cell. Dates that match the
// pattern but do not exist on the calendar (31.04, 29.02 outside leap
// years, hour 24) are rejected.
func ParseDateTime(text string) (time.Time, bool) {
	m := dateTimePattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year || t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, false
	}
	return t, true
}

// ClassifyMealType buckets an hour of day into a meal type.
func ClassifyMealType(hour int) MealType {
	switch {
	case hour >= 3 && hour < 9:
		return MealBreakfast
	case hour >= 9 && hour < 12:
		return MealSecondBreakfast
	case hour >= 12 && hour < 16:
		return MealLunch
	case hour >= 16 && hour < 19:
		return MealSnack
	default:
		return MealDinner
	}
}

// ParseNutritionalValues parses "calories,protein,fat,carbs". Every token
// must be a non-negative number and there must be exactly four of them.
func ParseNutritionalValues(text string) (NutritionalValues, error) {
	tokens := strings.Split(text, ",")
	if len(tokens) != 4 {
		return NutritionalValues{}, fmt.Errorf("%w: got %d", ErrNutritionTokenCount, len(tokens))
	}

	values := make([]float64, 4)
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if !numberExpr.MatchString(tok) {
			return NutritionalValues{}, fmt.Errorf("token %d %q: %w", i+1, tok, ErrNutritionNotNumber)
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return NutritionalValues{}, fmt.Errorf("token %d %q: %w", i+1, tok, ErrNutritionNotNumber)
		}
		if v < 0 {
			return NutritionalValues{}, fmt.Errorf("token %d: %w", i+1, ErrNutritionNegative)
		}
		values[i] = v
	}

	return NutritionalValues{
		Calories: values[0],
		Protein:  values[1],
		Fat:      values[2],
		Carbs:    values[3],
	}, nil
}

// parseNutritionalValuesLenient reads the leading number of each token and
// falls back to 0 for anything missing or unreadable. Only the diet parser
// uses it, after validation has passed.
func parseNutritionalValuesLenient(text string) NutritionalValues {
	tokens := strings.Split(text, ",")
	values := make([]float64, 4)
	for i := 0; i < 4 && i < len(tokens); i++ {
		values[i] = leadingNumber(tokens[i])
	}
	return NutritionalValues{
		Calories: values[0],
		Protein:  values[1],
		Fat:      values[2],
		Carbs:    values[3],
	}
}

func leadingNumber(token string) float64 {
	m := leadingNumberExpr.FindString(strings.TrimSpace(token))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// splitDateTime splits a dateTime cell into its date and time parts at the
// first comma. Both parts are trimmed.
func splitDateTime(cell string) (date, clock string) {
	date, clock, _ = strings.Cut(cell, ",")
	return strings.TrimSpace(date), strings.TrimSpace(clock)
}

// hourOf returns the hour of an "H:MM" string, or -1 when it cannot be read.
func hourOf(clock string) int {
	h, _, _ := strings.Cut(clock, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return -1
	}
	return hour
}
