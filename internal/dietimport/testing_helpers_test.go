package dietimport

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

var standardHeader = []string{
	"Data i godzina",
	"Nazwa posiłku",
	"Sposób przygotowania",
	"Wartości odżywcze",
	"Lista zakupów",
}

// buildWorkbook writes rows into the first sheet of a new xlsx file.
func buildWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("failed to build cell name: %v", err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("failed to set row %d: %v", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}
	return buf.Bytes()
}

func mealRow(dateTime, name, instructions, nutrition, shopping string) []string {
	return []string{dateTime, name, instructions, nutrition, shopping}
}

// fakeRecords is an in-memory DietRecordSource.
type fakeRecords struct {
	byUser map[string][][]string
	err    error
	calls  int
}

func (f *fakeRecords) ListDietDates(ctx context.Context, userID string) ([][]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

var errStoreDown = errors.New("store unavailable")

func countSeverity(findings []Finding, sev Severity) int {
	n := 0
	for _, f := range findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

func findingsFor(findings []Finding, column string) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Column == column {
			out = append(out, f)
		}
	}
	return out
}
