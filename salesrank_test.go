package salesrank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSuccess(t *testing.T) {
	t.Parallel()

	analysis := Analyze(twoProductCSV)

	require.True(t, analysis.OK())
	assert.Equal(t, FormatCSV, analysis.Format)
	assert.NoError(t, analysis.Err)
	assert.Equal(t, "Success", analysis.Fields.Message)
	assert.Equal(t, "Success", analysis.Types.Message)
	require.Len(t, analysis.Transactions, 2)
	require.Len(t, analysis.Metrics, 2)

	widget := analysis.Metrics[0]
	assert.Equal(t, 1, widget.Rank)
	assert.Equal(t, "P001", widget.ProductID)
	assert.InDelta(t, 11.0, widget.ImportanceScore, 1e-9)
	assert.Equal(t, twoProductReport, analysis.Response)
}

func TestAnalyzeJSONMatchesCSV(t *testing.T) {
	t.Parallel()

	jsonData := `{"transactions": [
		{"transaction_id": "T001", "customer_id": "C001", "transaction_date": "2024-01-15", "product_id": "P001", "product_name": "Widget", "quantity": 2, "price_usd": 10.00},
		{"transaction_id": "T002", "customer_id": "C002", "transaction_date": "2024-01-16", "product_id": "P002", "product_name": "Gadget", "quantity": 1, "price_usd": 5.50}
	]}`

	analysis := Analyze(jsonData)
	require.True(t, analysis.OK())
	assert.Equal(t, FormatJSON, analysis.Format)
	assert.Equal(t, twoProductReport, analysis.Response)
}

func TestAnalyzeFormatErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		data         string
		wantResponse string
	}{
		{
			name:         "missing transactions key",
			data:         `{"sales": []}`,
			wantResponse: "ERROR: Invalid JSON structure. Must contain 'transactions' key.\n\nWould you like a template for the data input?",
		},
		{
			name:         "unrecognized text",
			data:         "buy low, sell high",
			wantResponse: "ERROR: Invalid data format. Please provide your data in CSV or JSON format.\n\nWould you like a template for the data input?",
		},
		{
			name:         "broken transactions payload",
			data:         `{"transactions": 7}`,
			wantResponse: "ERROR: Data processing failed. 'transactions' must be an array of objects\n\nWould you like a template for the data input?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			analysis := Analyze(tt.data)
			assert.False(t, analysis.OK())
			assert.Error(t, analysis.Err)
			assert.Nil(t, analysis.Table)
			assert.Equal(t, tt.wantResponse, analysis.Response)
		})
	}
}

func TestAnalyzeTypeFailureKeepsMessageOutOfResponse(t *testing.T) {
	t.Parallel()

	data := `transaction_id,customer_id,transaction_date,product_id,product_name,quantity,price_usd
T001,C001,2024-01-15,P001,Widget,-1,10.00`

	analysis := Analyze(data)

	assert.False(t, analysis.OK())
	assert.Equal(t, "ERROR: Invalid value for field(s): quantity. Must be positive integer.", analysis.Types.Message)
	assert.Empty(t, analysis.Metrics)
	// The field-level message stays in the outcome; the response carries only
	// the structural report and the fixed footer.
	assert.NotContains(t, analysis.Response, "Must be positive integer")
	assert.Contains(t, analysis.Response, "Data validation failed. Please correct the errors above.")
}

func TestAnalyzeMissingFields(t *testing.T) {
	t.Parallel()

	data := "transaction_id,quantity,price_usd\nT001,2,10.00"
	analysis := Analyze(data)

	assert.False(t, analysis.OK())
	assert.Equal(t,
		"ERROR: Missing required fields: customer_id, transaction_date, product_id, product_name.",
		analysis.Fields.Message)
	assert.False(t, analysis.Fields.OK)
	// Type validation still ran and passed; only field validation gates here.
	assert.True(t, analysis.Types.OK)
}

func TestAnalyzeDateFailureDoesNotGate(t *testing.T) {
	t.Parallel()

	data := `transaction_id,customer_id,transaction_date,product_id,product_name,quantity,price_usd
T001,C001,someday,P001,Widget,2,10.00`

	analysis := Analyze(data)

	require.True(t, analysis.OK(), "date problems are reported but never gate the analysis")
	assert.False(t, analysis.Checks.DateOK)
	assert.Contains(t, analysis.Response, "   - Date format: ✗ Invalid date format found")
	assert.Contains(t, analysis.Response, "Data validation successful! Proceeding with analysis...")
}

func TestAnalyzeCaseInsensitiveHeaders(t *testing.T) {
	t.Parallel()

	data := `Transaction_ID, Customer_ID ,TRANSACTION_DATE,Product_ID,Product_Name,Quantity,Price_USD
T001,C001,2024-01-15,P001,Widget,2,10.00`

	analysis := Analyze(data)
	require.True(t, analysis.OK())
	require.Len(t, analysis.Metrics, 1)
	assert.Equal(t, "Widget", analysis.Metrics[0].ProductName)
}

func TestGenerateResponseRecordCountMatchesTable(t *testing.T) {
	t.Parallel()

	analysis := Analyze(twoProductCSV)
	require.NotNil(t, analysis.Table)
	assert.Equal(t, analysis.Table.NumRows(), analysis.Checks.Records)
}

func TestProcessFeedback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rating   int
		expected string
	}{
		{"five stars", 5, "Thank you for your positive feedback!"},
		{"four stars", 4, "Thank you for your positive feedback!"},
		{"three stars", 3, "How can we improve our product recommendations?"},
		{"two stars", 2, "How can we improve our product recommendations?"},
		{"one star", 1, "How can we improve our product recommendations?"},
		{"zero", 0, "How can we improve our product recommendations?"},
		{"negative", -3, "How can we improve our product recommendations?"},
		{"above range", 42, "Thank you for your positive feedback!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ProcessFeedback(tt.rating))
		})
	}
}
