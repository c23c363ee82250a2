package salesrank

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"
)

// utf8BOM is stripped from text inputs written by spreadsheet tools.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadFile reads an input file and returns the raw text the analysis
// pipeline consumes. Plain text formats (.csv, .tsv, .json, .txt) pass
// through, transparently decompressed for .gz, .bz2, .xz, and .zst suffixes.
// TSV is rewritten to CSV text. XLSX and Parquet files are converted to CSV
// text; both compress internally, so compressed variants are rejected.
// "-" reads stdin.
func LoadFile(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(bytes.TrimPrefix(data, utf8BOM)), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("failed to load file: path does not exist: %s", path)
		}
		return "", fmt.Errorf("failed to stat path %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory, not a file", path)
	}

	compression := detectCompression(path)
	ext := strings.ToLower(filepath.Ext(stripCompressionExt(path)))
	switch ext {
	case ".csv", ".json", ".txt":
		return loadText(path, compression, false)
	case ".tsv":
		return loadText(path, compression, true)
	case ".xlsx":
		if compression != CompressionNone {
			return "", fmt.Errorf("%w: compressed xlsx", ErrUnsupportedCompression)
		}
		return loadXLSX(path)
	case ".parquet":
		if compression != CompressionNone {
			return "", fmt.Errorf("%w: compressed parquet", ErrUnsupportedCompression)
		}
		return loadParquet(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// loadText reads a text file with optional decompression. TSV content is
// rewritten as CSV so format detection sees comma-delimited text.
func loadText(path string, compression Compression, tsv bool) (string, error) {
	file, err := os.Open(path) //nolint:gosec // user-provided input path
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}

	reader, cleanup, err := newCompressionReader(file, compression)
	if err != nil {
		_ = file.Close()
		return "", err
	}
	data, err := io.ReadAll(reader)
	if cleanupErr := cleanup(); err == nil && cleanupErr != nil {
		err = cleanupErr
	}
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := string(bytes.TrimPrefix(data, utf8BOM))
	if tsv {
		return tsvToCSV(text)
	}
	return text, nil
}

// tsvToCSV parses tab-separated text and re-encodes it as CSV.
func tsvToCSV(text string) (string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to parse tsv: %w", err)
	}
	return rowsToCSVText(rows)
}

// rowsToCSVText renders rows as CSV text for the detection pipeline.
func rowsToCSVText(rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to encode csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to encode csv: %w", err)
	}
	return buf.String(), nil
}

// loadXLSX converts the first sheet of an XLSX workbook to CSV text.
func loadXLSX(path string) (string, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("no sheets found in %s", path)
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rowsToCSVText(rows)
}

// loadParquet converts a Parquet file to CSV text via Arrow.
func loadParquet(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided input path
	if err != nil {
		return "", fmt.Errorf("failed to read parquet file: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer func() {
		_ = pqReader.Close()
	}()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create arrow reader: %w", err)
	}
	tbl, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return "", fmt.Errorf("failed to read table: %w", err)
	}
	defer tbl.Release()

	schema := tbl.Schema()
	header := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}
	rows := [][]string{header}

	tableReader := array.NewTableReader(tbl, 0)
	defer tableReader.Release()
	for tableReader.Next() {
		batch := tableReader.Record()
		numRows := int(batch.NumRows())
		for i := range numRows {
			row := make([]string, batch.NumCols())
			for j, col := range batch.Columns() {
				row[j] = arrowCellText(col, i)
			}
			rows = append(rows, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return "", fmt.Errorf("error reading table records: %w", err)
	}
	return rowsToCSVText(rows)
}

// arrowCellText renders one arrow column value as cell text. Null values
// become the null marker.
func arrowCellText(col arrow.Array, row int) string {
	if col.IsNull(row) {
		return ""
	}
	switch a := col.(type) {
	case *array.String:
		return a.Value(row)
	case *array.LargeString:
		return a.Value(row)
	case *array.Int32:
		return strconv.FormatInt(int64(a.Value(row)), 10)
	case *array.Int64:
		return strconv.FormatInt(a.Value(row), 10)
	case *array.Float32:
		return strconv.FormatFloat(float64(a.Value(row)), 'g', -1, 32)
	case *array.Float64:
		return strconv.FormatFloat(a.Value(row), 'g', -1, 64)
	case *array.Boolean:
		return strconv.FormatBool(a.Value(row))
	default:
		return a.ValueStr(row)
	}
}
