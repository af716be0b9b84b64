package dietimport

import (
	"context"
	"fmt"
	"strings"
)

// DietRecordSource is the read side of the diet store used for conflict
// detection. ListDietDates returns, for every diet stored for userID, the
// dates of its days.
type DietRecordSource interface {
	ListDietDates(ctx context.Context, userID string) ([][]string, error)
}

// FindConflicts returns the candidate dates that already appear in one of the
// user's stored diets, in candidate order and without duplicates.
func FindConflicts(ctx context.Context, source DietRecordSource, userID string, candidates []string) ([]string, error) {
	if source == nil || len(candidates) == 0 {
		return nil, nil
	}

	records, err := source.ListDietDates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list diet dates: %w", err)
	}

	stored := make(map[string]struct{})
	for _, dates := range records {
		for _, d := range dates {
			stored[d] = struct{}{}
		}
	}

	var conflicts []string
	seen := make(map[string]struct{})
	for _, c := range candidates {
		if _, ok := stored[c]; !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		conflicts = append(conflicts, c)
	}
	return conflicts, nil
}

func conflictWarning(dates []string) Finding {
	return fileWarning(fmt.Sprintf("user already has diets on: %s", strings.Join(dates, ", ")))
}

// candidateDates collects the distinct dates of all rows with a parseable
// dateTime, in first-occurrence order.
func candidateDates(rows [][]string, idx ColumnIndex) []string {
	var dates []string
	seen := make(map[string]struct{})
	for i := 1; i < len(rows); i++ {
		cell := idx.Cell(rows[i], KeyDateTime)
		if _, ok := ParseDateTime(cell); !ok {
			continue
		}
		date, _ := splitDateTime(cell)
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}
		dates = append(dates, date)
	}
	return dates
}
