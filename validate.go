package salesrank

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// requiredFields lists the seven columns every transaction batch must carry,
// in report order.
var requiredFields = []string{
	"transaction_id", "customer_id", "transaction_date",
	"product_id", "product_name", "quantity", "price_usd",
}

// Outcome is the result of one validation stage. OK is true only when zero
// violations of that stage's kind exist across all rows.
type Outcome struct {
	OK      bool
	Message string
}

// ValidateFields checks that all required columns are present, comparing
// normalized names case-insensitively. The failure message lists every
// missing field in declaration order.
func ValidateFields(t *Table) Outcome {
	present := make(map[string]struct{}, t.NumColumns())
	for _, col := range t.Columns() {
		present[strings.ToLower(strings.TrimSpace(col))] = struct{}{}
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := present[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return Outcome{Message: fmt.Sprintf("ERROR: Missing required fields: %s.", strings.Join(missing, ", "))}
	}
	return Outcome{OK: true, Message: "Success"}
}

// ValidateTypes coerces quantity and price_usd to numbers and checks
// positivity. A row is invalid when the coerced value is null or <= 0.
// Quantity is checked first and masks a simultaneous price failure. On
// success it returns the typed transactions; the table is not mutated.
func ValidateTypes(t *Table) (Outcome, []Transaction) {
	qi := t.columnIndex("quantity")
	if qi < 0 {
		return Outcome{Message: "ERROR: Data type validation failed. missing column: quantity"}, nil
	}
	pi := t.columnIndex("price_usd")
	if pi < 0 {
		return Outcome{Message: "ERROR: Data type validation failed. missing column: price_usd"}, nil
	}

	var invalidQuantity, invalidPrice bool
	txs := make([]Transaction, 0, t.NumRows())
	for _, row := range t.Rows() {
		quantity, qok := coerceNumeric(t.cell(row, qi))
		if !qok || quantity <= 0 {
			invalidQuantity = true
		}
		price, pok := coerceNumeric(t.cell(row, pi))
		if !pok || price <= 0 {
			invalidPrice = true
		}
		txs = append(txs, newTransaction(t, row, quantity, price))
	}

	if invalidQuantity {
		return Outcome{Message: "ERROR: Invalid value for field(s): quantity. Must be positive integer."}, nil
	}
	if invalidPrice {
		return Outcome{Message: "ERROR: Invalid value for field(s): price_usd. Must be positive number."}, nil
	}
	return Outcome{OK: true, Message: "Success"}, txs
}

// coerceNumeric converts cell text to a number. The null marker, non-numeric
// text, and NaN all fail coercion.
func coerceNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// StructuralChecks carries the numbers behind the structural report section.
type StructuralChecks struct {
	// Records is the parsed row count.
	Records int
	// Columns is the parsed column count.
	Columns int
	// Present maps each required field name to its presence.
	Present map[string]bool
	// InvalidQuantity counts rows whose quantity fails coercion or positivity.
	InvalidQuantity int
	// InvalidPrice counts rows whose price_usd fails coercion or positivity.
	InvalidPrice int
	// DateOK is true when every transaction_date cell parses as a date.
	DateOK bool
}

// CheckStructure computes the structural report data. An absent quantity or
// price_usd column marks every row invalid for that check; an absent
// transaction_date column fails the date check for every row. All checks
// pass vacuously on zero rows.
func CheckStructure(t *Table) StructuralChecks {
	checks := StructuralChecks{
		Records: t.NumRows(),
		Columns: t.NumColumns(),
		Present: make(map[string]bool, len(requiredFields)),
	}

	present := make(map[string]struct{}, t.NumColumns())
	for _, col := range t.Columns() {
		present[strings.ToLower(strings.TrimSpace(col))] = struct{}{}
	}
	for _, field := range requiredFields {
		_, ok := present[field]
		checks.Present[field] = ok
	}

	checks.InvalidQuantity = countInvalidNumeric(t, "quantity")
	checks.InvalidPrice = countInvalidNumeric(t, "price_usd")

	checks.DateOK = true
	di := t.columnIndex("transaction_date")
	for _, row := range t.Rows() {
		if di < 0 || !isDate(t.cell(row, di)) {
			checks.DateOK = false
			break
		}
	}
	return checks
}

// countInvalidNumeric counts rows failing coercion or positivity for the
// named column. An absent column counts every row.
func countInvalidNumeric(t *Table, name string) int {
	idx := t.columnIndex(name)
	if idx < 0 {
		return t.NumRows()
	}
	invalid := 0
	for _, row := range t.Rows() {
		if v, ok := coerceNumeric(t.cell(row, idx)); !ok || v <= 0 {
			invalid++
		}
	}
	return invalid
}

// Common date and datetime patterns accepted by the date check.
var datePatterns = []struct {
	pattern *regexp.Regexp
	formats []string // Multiple formats for the same pattern
}{
	// ISO8601 formats with timezone
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),
		[]string{time.RFC3339, time.RFC3339Nano},
	},
	// ISO8601 formats without timezone
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.000"},
	},
	// ISO8601 date and time with space
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.000"},
	},
	// ISO8601 date only
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		[]string{"2006-01-02"},
	},
	// US formats
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4} \d{1,2}:\d{2}:\d{2}( (AM|PM))?$`),
		[]string{"1/2/2006 15:04:05", "1/2/2006 3:04:05 PM", "01/02/2006 15:04:05"},
	},
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		[]string{"1/2/2006", "01/02/2006"},
	},
	// European formats
	{
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4} \d{1,2}:\d{2}:\d{2}$`),
		[]string{"2.1.2006 15:04:05", "02.01.2006 15:04:05"},
	},
	{
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`),
		[]string{"2.1.2006", "02.01.2006"},
	},
}

// isDate checks if a string value represents a calendar date or datetime.
func isDate(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	for _, dp := range datePatterns {
		if dp.pattern.MatchString(value) {
			// Try each format for this pattern
			for _, format := range dp.formats {
				if _, err := time.Parse(format, value); err == nil {
					return true
				}
			}
		}
	}
	return false
}
