package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `transaction_id,customer_id,transaction_date,product_id,product_name,quantity,price_usd
T001,C001,2024-01-15,P001,Widget,2,10.00
T002,C002,2024-01-16,P002,Gadget,1,5.50
`

// executeCommand runs the root command with the given args and returns its
// combined output. Package-level flag variables are reset first so runs do
// not leak state into each other; callers must not use t.Parallel.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile, logLevel, logFormat = "", "", ""
	exportDir, exportFormat, exportCompression, exportBOM = "", "", "", false
	cfg = DefaultConfig()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeSampleFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReportCommand(t *testing.T) {
	path := writeSampleFile(t, "sales.csv", sampleCSV)

	output, err := executeCommand(t, "report", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Data validation successful! Proceeding with analysis...")
	assert.Contains(t, output, "Rank 1: Widget")
	assert.Contains(t, output, "Rank 2: Gadget")
	assert.Contains(t, output, "= 11.00")
}

func TestReportCommandValidationFailure(t *testing.T) {
	path := writeSampleFile(t, "sales.csv", strings.ReplaceAll(sampleCSV, "T001,C001,2024-01-15,P001,Widget,2,10.00", "T001,C001,2024-01-15,P001,Widget,0,10.00"))

	output, err := executeCommand(t, "report", path)
	assert.ErrorIs(t, err, errAnalysisFailed)
	assert.Contains(t, output, "Data validation failed. Please correct the errors above.")
	assert.NotContains(t, output, "Rank 1:")
}

func TestReportCommandStdinDefault(t *testing.T) {
	reader, writer, err := os.Pipe()
	require.NoError(t, err)
	saved := os.Stdin
	os.Stdin = reader
	t.Cleanup(func() {
		os.Stdin = saved
		_ = reader.Close()
	})
	_, err = writer.WriteString(sampleCSV)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	output, err := executeCommand(t, "report")
	require.NoError(t, err)
	assert.Contains(t, output, "Rank 1: Widget")
}

func TestReportCommandMissingFile(t *testing.T) {
	_, err := executeCommand(t, "report", filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errAnalysisFailed)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestReportCommandExport(t *testing.T) {
	path := writeSampleFile(t, "sales.csv", sampleCSV)
	dir := filepath.Join(t.TempDir(), "out")

	_, err := executeCommand(t, "report", path, "--export-dir", dir, "--export-format", "tsv")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "product_metrics.tsv")) //nolint:gosec
	require.NoError(t, err)
	assert.Contains(t, string(data), "rank\tproduct_id")
	assert.Contains(t, string(data), "1\tP001\tWidget")
}

func TestReportCommandBadExportFormat(t *testing.T) {
	path := writeSampleFile(t, "sales.csv", sampleCSV)

	_, err := executeCommand(t, "report", path, "--export-dir", t.TempDir(), "--export-format", "parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestSQLCommand(t *testing.T) {
	path := writeSampleFile(t, "sales.csv", sampleCSV)

	output, err := executeCommand(t,
		"sql", "SELECT product_name, importance_score FROM product_metrics ORDER BY [rank]", path)
	require.NoError(t, err)
	assert.Equal(t, "product_name,importance_score\nWidget,11\nGadget,3.25\n", output)
}

func TestSQLCommandInvalidData(t *testing.T) {
	path := writeSampleFile(t, "sales.txt", "just some notes")

	output, err := executeCommand(t, "sql", "SELECT 1", path)
	assert.ErrorIs(t, err, errAnalysisFailed)
	assert.Contains(t, output, "ERROR: Invalid data format.")
}

func TestSQLCommandBadQuery(t *testing.T) {
	path := writeSampleFile(t, "sales.csv", sampleCSV)

	_, err := executeCommand(t, "sql", "SELECT nope FROM nowhere", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query failed")
}

func TestRateCommand(t *testing.T) {
	tests := []struct {
		name     string
		rating   string
		expected string
		wantErr  string
	}{
		{"positive", "5", "Thank you for your positive feedback!\n", ""},
		{"negative", "2", "How can we improve our product recommendations?\n", ""},
		{"out of range", "9", "", "rating must be between 1 and 5, got 9"},
		{"not a number", "abc", "", `rating must be a number between 1 and 5, got "abc"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := executeCommand(t, "rate", tt.rating)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, output)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, output, "salesrank dev (commit none")
}
