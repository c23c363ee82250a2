package salesrank

// Analysis is the structured result of analyzing one input batch.
type Analysis struct {
	// Format is the detected input classification.
	Format Format
	// Table is the parsed input; nil when detection failed.
	Table *Table
	// Checks holds the structural report data; zero value when detection
	// failed.
	Checks StructuralChecks
	// Fields is the required-fields validation outcome.
	Fields Outcome
	// Types is the type validation outcome.
	Types Outcome
	// Transactions holds the typed rows; nil unless type validation passed.
	Transactions []Transaction
	// Metrics is the ranked product table; nil unless validation passed.
	Metrics []ProductMetric
	// Response is the rendered report text.
	Response string
	// Err is the detection error when input could not become a table.
	Err error
}

// OK reports whether the batch passed format, field, and type validation.
// The date check is reported in the response but never gates success.
func (a *Analysis) OK() bool {
	return a.Err == nil && a.Fields.OK && a.Types.OK
}

// Analyze runs the full pipeline on raw input text: detection, structural
// checks, field and type validation, and, when both validations pass,
// aggregation and ranking. The rendered response is always populated and is
// byte-identical for identical input.
func Analyze(data string) *Analysis {
	a := &Analysis{Format: DetectFormat(data)}

	table, err := Detect(data)
	if err != nil {
		a.Err = err
		a.Response = renderFormatError(err.Error())
		return a
	}
	a.Table = table
	a.Checks = CheckStructure(table)
	structural := renderStructural(a.Checks)

	a.Fields = ValidateFields(table)
	a.Types, a.Transactions = ValidateTypes(table)
	if !a.Fields.OK || !a.Types.OK {
		a.Response = renderValidationFailure(structural)
		return a
	}

	a.Metrics = Aggregate(a.Transactions)
	a.Response = renderSuccess(structural, a.Metrics)
	return a
}

// GenerateResponse analyzes raw input text and returns the report text.
func GenerateResponse(data string) string {
	return Analyze(data).Response
}

// ProcessFeedback returns the acknowledgment for a 1-5 star rating. Ratings
// of 4 and above get the positive acknowledgment; everything else, including
// out-of-range values, gets the improvement request.
func ProcessFeedback(rating int) string {
	if rating >= 4 {
		return "Thank you for your positive feedback!"
	}
	return "How can we improve our product recommendations?"
}
