package salesrank

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// reportRule is the 50-dash separator used throughout the report.
var reportRule = strings.Repeat("-", 50)

// renderStructural builds the validation report segments. Segments beginning
// with "\n" produce a blank line when the response is joined with newlines.
func renderStructural(c StructuralChecks) []string {
	lines := []string{
		"Data Validation Report:",
		reportRule,
		"1. Data Structure Check:",
		fmt.Sprintf("   - Number of records: %d", c.Records),
		fmt.Sprintf("   - Number of columns: %d", c.Columns),
		"\n2. Required Fields Check:",
	}
	for _, field := range requiredFields {
		status := "✓ Present"
		if !c.Present[field] {
			status = "✗ Missing"
		}
		lines = append(lines, fmt.Sprintf("   - %s: %s", field, status))
	}

	lines = append(lines, "\n3. Data Type Validation:")
	quantityStatus := "✓ Valid"
	if c.InvalidQuantity > 0 {
		quantityStatus = fmt.Sprintf("✗ Found %d invalid records", c.InvalidQuantity)
	}
	lines = append(lines, fmt.Sprintf("   - Quantity (positive integers): %s", quantityStatus))

	priceStatus := "✓ Valid"
	if c.InvalidPrice > 0 {
		priceStatus = fmt.Sprintf("✗ Found %d invalid records", c.InvalidPrice)
	}
	lines = append(lines, fmt.Sprintf("   - Price (positive numbers): %s", priceStatus))

	dateStatus := "✓ Valid"
	if !c.DateOK {
		dateStatus = "✗ Invalid date format found"
	}
	lines = append(lines, fmt.Sprintf("   - Date format: %s", dateStatus))

	lines = append(lines, "\n"+reportRule)
	return lines
}

// renderFormatError builds the response for input that never became a table.
func renderFormatError(message string) string {
	return message + "\n\nWould you like a template for the data input?"
}

// renderValidationFailure builds the response when field or type validation
// failed: the structural report plus a fixed footer.
func renderValidationFailure(structural []string) string {
	return strings.Join(append(structural,
		"\nData validation failed. Please correct the errors above.",
		"Would you like a template for the data input?",
	), "\n")
}

// renderSuccess builds the full analysis response: structural report, success
// banner, formulas, summary, and every ranked product with calculation traces.
func renderSuccess(structural []string, metrics []ProductMetric) string {
	response := append(structural,
		"\nData validation successful! Proceeding with analysis...",
		"Formulas Used:",
		"1. Total Quantity Formula:",
		"   Total Quantity = ∑(quantity for each transaction)",
		"\n2. Total Spend Formula:",
		"   Total Spend = ∑(quantity × price_usd for each transaction)",
		"\n3. Importance Score Formula:",
		"   Importance Score = (Total Quantity × 0.5) + (Total Spend × 0.5)",
		"\nSummary:",
		fmt.Sprintf("Total number of products analyzed: %d", len(metrics)),
		"\nRanked List and Calculations:",
	)

	for _, m := range metrics {
		response = append(response,
			fmt.Sprintf("\nRank %d: %s", m.Rank, m.ProductName),
			"Detailed Calculations:",
			"Individual Transactions:",
			renderTransactionLines(m.Transactions),
			"\nTotal Quantity Calculation:",
			fmt.Sprintf("Total Quantity = %s units", wholeUnits(m.TotalQuantity)),
			"\nTotal Spend Calculation:",
			fmt.Sprintf("Total Spend = $%s", moneyComma(m.TotalSpend)),
			"\nImportance Score Calculation:",
			fmt.Sprintf("Importance Score = (Total Quantity × 0.5) + (Total Spend × 0.5)\n= (%s × 0.5) + (%s × 0.5)\n= %s + %s\n= %s",
				wholeUnits(m.TotalQuantity), money(m.TotalSpend),
				money(m.TotalQuantity*0.5), money(m.TotalSpend*0.5),
				money(m.ImportanceScore)),
			"\nProduct Summary:",
			fmt.Sprintf("- Total Quantity: %s units", wholeUnits(m.TotalQuantity)),
			fmt.Sprintf("- Total Spend: $%s", moneyComma(m.TotalSpend)),
			fmt.Sprintf("- Importance Score: %s", money(m.ImportanceScore)),
			"\n"+reportRule,
		)
	}

	if len(metrics) > 10 {
		response = append(response, "\nNote: All products are shown with full calculations for transparency.")
	}
	response = append(response, "\nWould you like detailed calculations for any specific product? Please rate this analysis from 1 to 5 stars.")
	return strings.Join(response, "\n")
}

// renderTransactionLines renders a product's transactions one line each,
// joined into a single segment.
func renderTransactionLines(txs []Transaction) string {
	lines := make([]string, 0, len(txs))
	for _, tx := range txs {
		lines = append(lines, fmt.Sprintf("Transaction %s: %s units × $%s = $%s",
			tx.ID, wholeUnits(tx.Quantity), money(tx.PriceUSD), money(tx.Quantity*tx.PriceUSD)))
	}
	return strings.Join(lines, "\n")
}

// money renders a value with two decimals.
func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// moneyComma renders a value with two decimals and thousands separators.
func moneyComma(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// wholeUnits renders a quantity as an integer, truncating toward zero.
func wholeUnits(v float64) string {
	return strconv.FormatInt(int64(v), 10)
}
