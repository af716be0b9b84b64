// Command dietcheck validates diet spreadsheets offline, without the API.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/fdg312/diet-hub/internal/config"
	"github.com/fdg312/diet-hub/internal/dietimport"
	"github.com/fdg312/diet-hub/internal/reports"
)

// errInvalidDiet makes the process exit with status 1 after the report is written.
var errInvalidDiet = errors.New("diet file is invalid")

var (
	outputPath string
	userID     string
	format     string
	pretty     bool
	verbose    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalidDiet) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dietcheck",
		Short:         "Validate diet plan spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline diagnostics to stderr")

	validateCmd := &cobra.Command{
		Use:   "validate [diet.xlsx]",
		Short: "Validate a spreadsheet and print the report",
		Long: `validate runs the full import pipeline on the first sheet of an xlsx file
and prints every error and warning. Date conflicts are not checked offline.
The exit status is 1 when the file is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
	validateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	validateCmd.Flags().StringVar(&userID, "user", "", "User the report is generated for")
	validateCmd.Flags().StringVarP(&format, "format", "f", reports.FormatText, "Report format: text, json, pdf, csv")

	parseCmd := &cobra.Command{
		Use:   "parse [diet.xlsx]",
		Short: "Print the parsed days and shopping list as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	parseCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(validateCmd, parseCmd)
	return rootCmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	reportFormat, err := reports.ParseFormat(format)
	if err != nil {
		return fmt.Errorf("invalid format: %s (must be text, json, pdf or csv)", format)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	result := newValidator(cmd.ErrOrStderr()).Validate(context.Background(), data, userID)

	out, err := reports.Render(reportFormat, reports.Report{
		FileName:    filepath.Base(inputPath),
		UserID:      userID,
		GeneratedAt: time.Now(),
		Result:      result,
	})
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := writeOutput(cmd.OutOrStdout(), out); err != nil {
		return err
	}

	if !result.IsValid {
		return errInvalidDiet
	}
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	parsed, err := newValidator(cmd.ErrOrStderr()).ParseFile(data)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	var out []byte
	if pretty {
		out, err = json.MarshalIndent(parsed, "", "  ")
	} else {
		out, err = json.Marshal(parsed)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	return writeOutput(cmd.OutOrStdout(), append(out, '\n'))
}

// newValidator builds the pipeline with limits from the environment and no
// conflict source.
func newValidator(stderr io.Writer) *dietimport.Service {
	logOut := io.Discard
	if verbose {
		logOut = stderr
	}

	limits := config.Load().Diet
	return dietimport.NewService(nil, log.New(logOut, "", log.LstdFlags)).WithLimits(dietimport.Limits{
		MealNameMaxLen: limits.MealNameMaxLen,
		CaloriesMin:    limits.CaloriesMin,
		CaloriesMax:    limits.CaloriesMax,
		MaxMealsPerDay: limits.MaxMealsPerDay,
	})
}

func writeOutput(stdout io.Writer, data []byte) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err := io.Copy(stdout, bytes.NewReader(data))
	return err
}
