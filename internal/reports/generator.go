package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/fdg312/diet-hub/internal/dietimport"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Render renders a report in the given format.
func Render(format string, r Report) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(r.Result, "", "  ")
	case FormatPDF:
		return RenderPDF(r)
	case FormatCSV:
		return RenderCSV(r)
	case FormatText:
		var buf bytes.Buffer
		if err := RenderText(&buf, r); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
}

// findingRows flattens errors then warnings into table rows.
func findingRows(res dietimport.ValidationResult) [][]string {
	rows := make([][]string, 0, len(res.Errors)+len(res.Warnings))
	for _, group := range [][]dietimport.Finding{res.Errors, res.Warnings} {
		for _, f := range group {
			rows = append(rows, []string{string(f.Severity), strconv.Itoa(f.Row), f.Column, f.Message})
		}
	}
	return rows
}

func status(res dietimport.ValidationResult) string {
	if res.IsValid {
		return "VALID"
	}
	return "INVALID"
}

func dayCalories(day dietimport.ParsedDay) float64 {
	var total float64
	for _, m := range day.Meals {
		total += m.NutritionalValues.Calories
	}
	return total
}

// RenderText writes a plain text report for terminals.
func RenderText(w io.Writer, r Report) error {
	res := r.Result
	fmt.Fprintf(w, "File:     %s\n", r.FileName)
	fmt.Fprintf(w, "Status:   %s\n", status(res))
	fmt.Fprintf(w, "Errors:   %d\n", len(res.Errors))
	fmt.Fprintf(w, "Warnings: %d\n", len(res.Warnings))

	if rows := findingRows(res); len(rows) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SEVERITY\tROW\tCOLUMN\tMESSAGE")
		for _, row := range rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if res.IsValid {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tMEALS\tKCAL")
		for _, day := range res.Data {
			fmt.Fprintf(tw, "%s\t%d\t%.0f\n", day.Date, len(day.Meals), dayCalories(day))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if len(res.ShoppingList) > 0 {
			fmt.Fprintf(w, "\nShopping list: %s\n", strings.Join(res.ShoppingList, ", "))
		}
	}

	return nil
}

// RenderPDF renders the report with the core Arial font. Text is folded to
// Latin-1 since core fonts carry no glyphs for Polish letters.
func RenderPDF(r Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(foldForPDF(s)) }

	pdf.SetTitle("Diet validation report", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Diet file validation report")
	pdf.Ln(10)

	res := r.Result
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, text("File: "+r.FileName))
	pdf.Ln(6)
	if r.UserID != "" {
		pdf.Cell(0, 6, text("User: "+r.UserID))
		pdf.Ln(6)
	}
	if !r.GeneratedAt.IsZero() {
		pdf.Cell(0, 6, "Generated: "+r.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s (%d errors, %d warnings)", status(res), len(res.Errors), len(res.Warnings)))
	pdf.Ln(10)

	if rows := findingRows(res); len(rows) > 0 {
		sectionTitle(pdf, "Findings")
		widths := []float64{22, 14, 34, 120}
		tableHeader(pdf, widths, []string{"Severity", "Row", "Column", "Message"})
		pdf.SetFont("Arial", "", 8)
		for _, row := range rows {
			for i, cell := range row {
				pdf.CellFormat(widths[i], 6, truncate(pdf, text(cell), widths[i]), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	if res.IsValid && len(res.Data) > 0 {
		sectionTitle(pdf, "Diet days")
		widths := []float64{30, 20, 25, 115}
		tableHeader(pdf, widths, []string{"Date", "Meals", "Kcal", "Meal names"})
		pdf.SetFont("Arial", "", 8)
		for _, day := range res.Data {
			names := make([]string, 0, len(day.Meals))
			for _, m := range day.Meals {
				names = append(names, m.Time+" "+m.Name)
			}
			pdf.CellFormat(widths[0], 6, day.Date, "1", 0, "C", false, 0, "")
			pdf.CellFormat(widths[1], 6, strconv.Itoa(len(day.Meals)), "1", 0, "C", false, 0, "")
			pdf.CellFormat(widths[2], 6, fmt.Sprintf("%.0f", dayCalories(day)), "1", 0, "C", false, 0, "")
			pdf.CellFormat(widths[3], 6, truncate(pdf, text(strings.Join(names, "; ")), widths[3]), "1", 1, "L", false, 0, "")
		}
		pdf.Ln(6)
	}

	if res.IsValid && len(res.ShoppingList) > 0 {
		sectionTitle(pdf, "Shopping list")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, text(strings.Join(res.ShoppingList, ", ")), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
}

func tableHeader(pdf *gofpdf.Fpdf, widths []float64, titles []string) {
	pdf.SetFont("Arial", "B", 9)
	for i, title := range titles {
		pdf.CellFormat(widths[i], 6, title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}

// truncate shortens s to fit a cell of the given width.
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}

var polishLetters = strings.NewReplacer("ł", "l", "Ł", "L")

// foldForPDF strips diacritics the Latin-1 core fonts cannot draw.
func foldForPDF(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, polishLetters.Replace(s))
	if err != nil {
		return s
	}
	return out
}
