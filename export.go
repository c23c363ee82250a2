package salesrank

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// xlsxFileName is the workbook name used for XLSX export. Both tables land
// in one file, a sheet each.
const xlsxFileName = "salesrank.xlsx"

// OutputFormat represents the export file format.
type OutputFormat int

const (
	// OutputFormatCSV represents CSV output format
	OutputFormatCSV OutputFormat = iota
	// OutputFormatTSV represents TSV output format
	OutputFormatTSV
	// OutputFormatXLSX represents Excel workbook output format
	OutputFormatXLSX
)

// String returns the string representation of OutputFormat.
func (f OutputFormat) String() string {
	switch f {
	case OutputFormatCSV:
		return "csv"
	case OutputFormatTSV:
		return "tsv"
	case OutputFormatXLSX:
		return "xlsx"
	default:
		return "csv"
	}
}

// Extension returns the file extension for the format.
func (f OutputFormat) Extension() string {
	switch f {
	case OutputFormatCSV:
		return ".csv"
	case OutputFormatTSV:
		return ".tsv"
	case OutputFormatXLSX:
		return ".xlsx"
	default:
		return ".csv"
	}
}

// ParseOutputFormat converts a format name to its OutputFormat value.
// Accepted names: "csv" (or empty), "tsv", "xlsx".
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "csv":
		return OutputFormatCSV, nil
	case "tsv":
		return OutputFormatTSV, nil
	case "xlsx":
		return OutputFormatXLSX, nil
	default:
		return OutputFormatCSV, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// ExportOptions configures how analysis tables are exported to files.
//
// Example:
//
//	options := NewExportOptions().
//		WithFormat(OutputFormatTSV).
//		WithCompression(CompressionGZ)
//
//	err := Export(analysis, "./output", options)
type ExportOptions struct {
	// Format specifies the output file format
	Format OutputFormat
	// Compression specifies the compression type for text formats
	Compression Compression
	// BOM prepends a UTF-8 byte order mark to text output for Excel interop
	BOM bool
}

// NewExportOptions creates default export options (CSV, no compression).
//
// Modify with:
//   - WithFormat(): Change file format (CSV, TSV, XLSX)
//   - WithCompression(): Add compression (GZ, XZ, ZSTD)
//   - WithBOM(): Prepend a UTF-8 byte order mark
func NewExportOptions() ExportOptions {
	return ExportOptions{
		Format:      OutputFormatCSV,
		Compression: CompressionNone,
	}
}

// WithFormat sets the output file format.
func (o ExportOptions) WithFormat(format OutputFormat) ExportOptions {
	o.Format = format
	return o
}

// WithCompression adds compression to output files. Only text formats
// compress; XLSX is already a compressed container.
func (o ExportOptions) WithCompression(compression Compression) ExportOptions {
	o.Compression = compression
	return o
}

// WithBOM controls the UTF-8 byte order mark on text output.
func (o ExportOptions) WithBOM(enabled bool) ExportOptions {
	o.BOM = enabled
	return o
}

// FileExtension returns the complete file extension including compression.
func (o ExportOptions) FileExtension() string {
	return o.Format.Extension() + o.Compression.Extension()
}

// exportTable pairs a table name with its header and typed rows. Numeric
// cells stay numeric so XLSX export writes real numbers.
type exportTable struct {
	name   string
	header []string
	rows   [][]any
}

// Export writes the analysis tables to files under dir. CSV and TSV produce
// one file per table named <table><format ext><compression ext>; XLSX
// produces a single salesrank.xlsx workbook with a sheet per table. Analyses
// that failed validation cannot be exported and return ErrNotValidated.
func Export(analysis *Analysis, dir string, options ExportOptions) error {
	if analysis == nil || !analysis.OK() {
		return ErrNotValidated
	}
	if options.Format == OutputFormatXLSX && options.Compression != CompressionNone {
		return fmt.Errorf("%w: xlsx output cannot be compressed", ErrUnsupportedCompression)
	}
	if options.Compression == CompressionBZ2 {
		return fmt.Errorf("%w: bzip2 has no writer", ErrUnsupportedCompression)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tables := exportTables(analysis)
	if options.Format == OutputFormatXLSX {
		return exportXLSX(filepath.Join(dir, xlsxFileName), tables)
	}
	for _, table := range tables {
		path := filepath.Join(dir, table.name+options.FileExtension())
		if err := exportTextFile(path, table, options); err != nil {
			return err
		}
	}
	return nil
}

// exportTables extracts the two export tables from an analysis.
func exportTables(analysis *Analysis) []exportTable {
	transactions := exportTable{
		name:   TableTransactions,
		header: columnNames(transactionColumns),
		rows:   make([][]any, 0, len(analysis.Transactions)),
	}
	for _, t := range analysis.Transactions {
		transactions.rows = append(transactions.rows, []any{
			t.ID, t.CustomerID, t.Date, t.ProductID, t.ProductName, t.Quantity, t.PriceUSD,
		})
	}

	metrics := exportTable{
		name:   TableProductMetrics,
		header: columnNames(productMetricColumns),
		rows:   make([][]any, 0, len(analysis.Metrics)),
	}
	for _, m := range analysis.Metrics {
		metrics.rows = append(metrics.rows, []any{
			m.Rank, m.ProductID, m.ProductName, m.TotalQuantity, m.TotalSpend, m.ImportanceScore,
		})
	}
	return []exportTable{transactions, metrics}
}

func columnNames(columns [][2]string) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col[0]
	}
	return names
}

// exportTextFile writes one table as CSV or TSV, optionally compressed.
func exportTextFile(path string, table exportTable, options ExportOptions) error {
	file, err := os.Create(path) //nolint:gosec // caller-chosen output path
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	err = writeTextTable(file, table, options)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	return err
}

func writeTextTable(w io.Writer, table exportTable, options ExportOptions) error {
	writer, cleanup, err := newCompressionWriter(w, options.Compression)
	if err != nil {
		return err
	}

	err = func() error {
		if options.BOM {
			if _, err := writer.Write(utf8BOM); err != nil {
				return fmt.Errorf("failed to write BOM: %w", err)
			}
		}
		csvWriter := csv.NewWriter(writer)
		if options.Format == OutputFormatTSV {
			csvWriter.Comma = '\t'
		}
		if err := csvWriter.Write(table.header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		record := make([]string, 0, len(table.header))
		for _, row := range table.rows {
			record = record[:0]
			for _, cell := range row {
				record = append(record, cellString(cell))
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
		}
		csvWriter.Flush()
		return csvWriter.Error()
	}()

	if cleanupErr := cleanup(); err == nil && cleanupErr != nil {
		err = fmt.Errorf("failed to finalize compression: %w", cleanupErr)
	}
	return err
}

// cellString renders a typed cell as text for CSV and TSV output.
func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}

// exportXLSX writes all tables into one workbook, a sheet per table.
func exportXLSX(path string, tables []exportTable) error {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	for i, table := range tables {
		if i == 0 {
			if err := file.SetSheetName("Sheet1", table.name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", table.name, err)
			}
		} else if _, err := file.NewSheet(table.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", table.name, err)
		}
		if err := writeXLSXSheet(file, table); err != nil {
			return err
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeXLSXSheet(file *excelize.File, table exportTable) error {
	header := make([]any, len(table.header))
	for i, name := range table.header {
		header[i] = name
	}
	if err := setSheetRow(file, table.name, 1, header); err != nil {
		return err
	}
	for i, row := range table.rows {
		if err := setSheetRow(file, table.name, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setSheetRow(file *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to build cell name: %w", err)
	}
	if err := file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
