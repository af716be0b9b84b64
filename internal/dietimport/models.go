package dietimport

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ColumnFile is the column of findings that concern the whole file.
const ColumnFile = "file"

// Finding is a single validation error or warning.
// Row is the index of the row in the decoded sheet (header row is 0).
type Finding struct {
	Row      int      `json:"row"`
	Column   string   `json:"column"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// MealType is derived from the hour a meal is scheduled at.
type MealType string

const (
	MealBreakfast       MealType = "breakfast"
	MealSecondBreakfast MealType = "second_breakfast"
	MealLunch           MealType = "lunch"
	MealSnack           MealType = "snack"
	MealDinner          MealType = "dinner"
)

type NutritionalValues struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

type ParsedMeal struct {
	Time              string            `json:"time"`
	MealType          MealType          `json:"meal_type"`
	Name              string            `json:"name"`
	Instructions      string            `json:"instructions"`
	NutritionalValues NutritionalValues `json:"nutritional_values"`
}

// ParsedDay groups meals sharing a DD.MM.YYYY date, in row order.
type ParsedDay struct {
	Date  string       `json:"date"`
	Meals []ParsedMeal `json:"meals"`
}

type ParsedExcelResult struct {
	Days         []ParsedDay `json:"days"`
	ShoppingList []string    `json:"shopping_list"`
}

// ValidationResult is the complete report for one uploaded file.
// Data and ShoppingList are set only when IsValid is true.
type ValidationResult struct {
	IsValid      bool        `json:"is_valid"`
	Errors       []Finding   `json:"errors"`
	Warnings     []Finding   `json:"warnings"`
	Data         []ParsedDay `json:"data,omitempty"`
	ShoppingList []string    `json:"shopping_list,omitempty"`
}

// Dates returns the day dates of a valid result in output order.
func (r ValidationResult) Dates() []string {
	dates := make([]string, 0, len(r.Data))
	for _, d := range r.Data {
		dates = append(dates, d.Date)
	}
	return dates
}

func fileError(message string) Finding {
	return Finding{Row: 0, Column: ColumnFile, Message: message, Severity: SeverityError}
}

func fileWarning(message string) Finding {
	return Finding{Row: 0, Column: ColumnFile, Message: message, Severity: SeverityWarning}
}
