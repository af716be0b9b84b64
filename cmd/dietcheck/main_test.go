package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fdg312/diet-hub/internal/dietimport"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to set row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "dieta.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

func validWorkbook(t *testing.T) string {
	return writeWorkbook(t, [][]interface{}{
		{"Data i godzina", "Nazwa posiłku", "Sposób przygotowania", "Wartości odżywcze", "Lista zakupów"},
		{"26.01.2025, 7:30", "Owsianka", "Ugotuj płatki", "450,15,10,70", "płatki, mleko"},
		{"27.01.2025, 13:00", "Zupa", "Podgrzej", "600,20,15,80", "-"},
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand_Valid(t *testing.T) {
	out, err := execute(t, "validate", validWorkbook(t), "--user", "anna")
	if err != nil {
		t.Fatalf("expected success, got %v\n%s", err, out)
	}
	for _, want := range []string{"VALID", "26.01.2025", "27.01.2025"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestValidateCommand_InvalidExitsWithError(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Data i godzina", "Nazwa posiłku", "Sposób przygotowania", "Wartości odżywcze"},
		{"99.01.2025, 7:30", "Owsianka", "Ugotuj", "450,15,10,70"},
	})

	out, err := execute(t, "validate", path, "--format", "json")
	if !errors.Is(err, errInvalidDiet) {
		t.Fatalf("expected errInvalidDiet, got %v", err)
	}

	var res dietimport.ValidationResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("expected JSON report, got %q: %v", out, err)
	}
	if res.IsValid || len(res.Errors) == 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestValidateCommand_WritesOutputFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "report.pdf")

	if _, err := execute(t, "validate", validWorkbook(t), "-f", "pdf", "-o", target); err != nil {
		t.Fatalf("validate: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestValidateCommand_BadFormat(t *testing.T) {
	_, err := execute(t, "validate", validWorkbook(t), "--format", "xml")
	if err == nil || errors.Is(err, errInvalidDiet) {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestParseCommand(t *testing.T) {
	out, err := execute(t, "parse", validWorkbook(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var parsed dietimport.ParsedExcelResult
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(parsed.Days) != 2 || len(parsed.ShoppingList) != 2 {
		t.Errorf("unexpected parse result %+v", parsed)
	}
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "missing.xlsx"))
	if err == nil || !strings.Contains(err.Error(), "failed to read input") {
		t.Fatalf("expected read error, got %v", err)
	}
}
