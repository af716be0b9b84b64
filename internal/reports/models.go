package reports

import (
	"errors"
	"strings"
	"time"

	"github.com/fdg312/diet-hub/internal/dietimport"
)

// Report format constants
const (
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatCSV  = "csv"
	FormatText = "text"
)

var ErrInvalidFormat = errors.New("invalid format")

// Report is a validation result together with the context it was produced in.
type Report struct {
	FileName    string
	UserID      string
	GeneratedAt time.Time
	Result      dietimport.ValidationResult
}

// ParseFormat normalizes a user supplied format name. Empty means JSON.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatPDF, FormatCSV, FormatText:
		return f, nil
	case "txt":
		return FormatText, nil
	default:
		return "", ErrInvalidFormat
	}
}

// ContentType returns the MIME type of a rendered report.
func ContentType(format string) string {
	switch format {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Extension returns the file extension used for downloads.
func Extension(format string) string {
	if format == FormatText {
		return "txt"
	}
	return format
}
