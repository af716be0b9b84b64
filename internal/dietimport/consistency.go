package dietimport

import "fmt"

// CheckMealsPerDay warns about dates with more than maxMeals rows. rows is the
// full decoded sheet including the header at index 0. Rows without a
// parseable dateTime are ignored. Each warning is attributed to the first row
// of its date; warnings follow first-occurrence order.
func CheckMealsPerDay(rows [][]string, idx ColumnIndex, maxMeals int) []Finding {
	type dateRows struct {
		first int
		count int
	}

	byDate := make(map[string]*dateRows)
	var order []string
	for i := 1; i < len(rows); i++ {
		cell := idx.Cell(rows[i], KeyDateTime)
		if _, ok := ParseDateTime(cell); !ok {
			continue
		}
		date, _ := splitDateTime(cell)
		dr, ok := byDate[date]
		if !ok {
			dr = &dateRows{first: i}
			byDate[date] = dr
			order = append(order, date)
		}
		dr.count++
	}

	var warnings []Finding
	for _, date := range order {
		dr := byDate[date]
		if dr.count > maxMeals {
			warnings = append(warnings, Finding{
				Row:      dr.first,
				Column:   KeyDateTime,
				Message:  fmt.Sprintf("unusually many meals on %s (%d meals)", date, dr.count),
				Severity: SeverityWarning,
			})
		}
	}
	return warnings
}
