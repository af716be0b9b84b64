package dietimport

import (
	"context"
	"fmt"
	"strings"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Service runs the validation pipeline for uploaded diet spreadsheets.
// It holds only immutable configuration and is safe for concurrent use.
type Service struct {
	columns []ColumnDefinition
	limits  Limits
	records DietRecordSource
	logger  Logger
}

// NewService creates a pipeline with the default column table. records may be
// nil, in which case conflict detection is skipped.
func NewService(records DietRecordSource, logger Logger) *Service {
	limits := DefaultLimits()
	return &Service{
		columns: Columns(limits),
		limits:  limits,
		records: records,
		logger:  logger,
	}
}

// WithLimits rebuilds the column table with the given thresholds.
func (s *Service) WithLimits(l Limits) *Service {
	s.limits = l
	s.columns = Columns(l)
	return s
}

// WithColumns replaces the column table, e.g. to use a different alias set.
func (s *Service) WithColumns(defs []ColumnDefinition) *Service {
	s.columns = defs
	return s
}

// Validate decodes an xlsx file and runs the full pipeline on its first sheet.
// It never returns an error: every failure is reported as a finding.
func (s *Service) Validate(ctx context.Context, data []byte, userID string) ValidationResult {
	rows, err := ReadFirstSheet(data)
	if err != nil {
		s.logf("WARN dietimport: decode failed user=%s err=%v", userID, err)
		return invalid([]Finding{fileError("failed to process the file: the workbook could not be read")}, nil)
	}
	return s.ValidateRows(ctx, rows, userID)
}

// ValidateRows runs the pipeline on already decoded rows (header at index 0).
func (s *Service) ValidateRows(ctx context.Context, rows [][]string, userID string) ValidationResult {
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}

	idx, missing := ResolveColumns(header, s.columns)
	if len(missing) > 0 {
		return invalid([]Finding{fileError(s.missingColumnsMessage(missing))}, nil)
	}

	errs := []Finding{}
	warnings := []Finding{}
	for i := 1; i < len(rows); i++ {
		if isBlankRow(rows[i]) {
			continue
		}
		rowErrs, rowWarnings := ValidateRow(rows[i], i, idx, s.columns)
		errs = append(errs, rowErrs...)
		warnings = append(warnings, rowWarnings...)
	}

	warnings = append(warnings, CheckMealsPerDay(rows, idx, s.limits.MaxMealsPerDay)...)

	if len(errs) > 0 {
		return invalid(errs, warnings)
	}

	if conflicts := s.conflicts(ctx, userID, candidateDates(rows, idx)); len(conflicts) > 0 {
		warnings = append(warnings, conflictWarning(conflicts))
	}

	parsed, err := Parse(rows, idx)
	if err != nil {
		s.logf("ERROR dietimport: parse failed user=%s err=%v", userID, err)
		return invalid([]Finding{fileError("failed to parse diet data from the file")}, warnings)
	}
	if len(parsed.Days) == 0 {
		return invalid([]Finding{fileError("no diet days could be parsed from the file")}, warnings)
	}

	var emptyDays []string
	for _, d := range parsed.Days {
		if len(d.Meals) == 0 {
			emptyDays = append(emptyDays, d.Date)
		}
	}
	if len(emptyDays) > 0 {
		warnings = append(warnings, fileWarning(fmt.Sprintf("days without meals: %s", strings.Join(emptyDays, ", "))))
	}
	if len(parsed.ShoppingList) == 0 {
		warnings = append(warnings, fileWarning("shopping list is missing in the file"))
	}

	return ValidationResult{
		IsValid:      true,
		Errors:       []Finding{},
		Warnings:     warnings,
		Data:         parsed.Days,
		ShoppingList: parsed.ShoppingList,
	}
}

// ParseFile decodes an xlsx file and parses it without validating the rows.
func (s *Service) ParseFile(data []byte) (ParsedExcelResult, error) {
	rows, err := ReadFirstSheet(data)
	if err != nil {
		return ParsedExcelResult{}, err
	}
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	idx, missing := ResolveColumns(header, s.columns)
	if len(missing) > 0 {
		return ParsedExcelResult{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return Parse(rows, idx)
}

func (s *Service) conflicts(ctx context.Context, userID string, dates []string) []string {
	conflicts, err := FindConflicts(ctx, s.records, userID, dates)
	if err != nil {
		s.logf("WARN dietimport: conflict lookup failed user=%s err=%v", userID, err)
		return nil
	}
	return conflicts
}

func (s *Service) missingColumnsMessage(missing []string) string {
	names := make([]string, 0, len(missing))
	for _, key := range missing {
		name := key
		for _, def := range s.columns {
			if def.Key == key && len(def.Aliases) > 0 {
				name = fmt.Sprintf("%s (%s)", key, def.Aliases[0])
				break
			}
		}
		names = append(names, name)
	}
	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(names, ", "))
}

func (s *Service) logf(format string, v ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, v...)
}

func invalid(errs, warnings []Finding) ValidationResult {
	if warnings == nil {
		warnings = []Finding{}
	}
	return ValidationResult{
		IsValid:  false,
		Errors:   errs,
		Warnings: warnings,
	}
}
