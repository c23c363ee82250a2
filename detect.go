package salesrank

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Format represents the detected input data format.
type Format int

const (
	// FormatUnknown represents input that is neither CSV nor JSON
	FormatUnknown Format = iota
	// FormatCSV represents CSV input with a header row
	FormatCSV
	// FormatJSON represents a JSON envelope with a transactions array
	FormatJSON
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// DetectFormat classifies raw input text. Text containing the literal
// substring "transaction_id," or "transaction_id" followed by a newline is
// CSV; otherwise any syntactically valid JSON document is JSON.
func DetectFormat(data string) Format {
	data = strings.TrimSpace(data)
	if strings.Contains(data, "transaction_id,") || strings.Contains(data, "transaction_id\n") {
		return FormatCSV
	}
	if json.Valid([]byte(data)) {
		return FormatJSON
	}
	return FormatUnknown
}

// Detect parses raw input text into a Table. On failure the returned error's
// Error() is the exact user-facing message: ErrInvalidDataFormat,
// ErrInvalidJSONStructure, or a *ProcessingError wrapping the cause.
func Detect(data string) (*Table, error) {
	data = strings.TrimSpace(data)
	if DetectFormat(data) == FormatCSV {
		return parseCSVTable(data)
	}
	return parseJSONTable(data)
}

// parseCSVTable parses CSV text with a header row. Optional whitespace after
// delimiters is ignored. Rows shorter than the header are padded with the
// null marker; longer rows are a processing error.
func parseCSVTable(data string) (*Table, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	all, err := r.ReadAll()
	if err != nil {
		return nil, &ProcessingError{Err: err}
	}
	if len(all) == 0 {
		return nil, &ProcessingError{Err: errors.New("no columns to parse from file")}
	}

	columns := make([]string, len(all[0]))
	for i, name := range all[0] {
		columns[i] = normalizeCSVColumn(name)
	}

	rows := make([]Record, 0, len(all)-1)
	for i, rec := range all[1:] {
		if len(rec) > len(columns) {
			return nil, &ProcessingError{
				Err: fmt.Errorf("expected %d fields in line %d, saw %d", len(columns), i+2, len(rec)),
			}
		}
		row := make(Record, len(columns))
		copy(row, rec)
		rows = append(rows, row)
	}
	return newTable(columns, rows), nil
}

// parseJSONTable parses a JSON envelope {"transactions": [...]} into a Table.
// The column set is the union of row-object keys in first-encounter order.
func parseJSONTable(data string) (*Table, error) {
	if !json.Valid([]byte(data)) {
		return nil, ErrInvalidDataFormat
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		// Valid JSON but not an object; it cannot carry the transactions key.
		return nil, ErrInvalidJSONStructure
	}
	rawList, ok := doc["transactions"]
	if !ok {
		return nil, ErrInvalidJSONStructure
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(rawList, &elements); err != nil {
		return nil, &ProcessingError{Err: errors.New("'transactions' must be an array of objects")}
	}

	var columns []string
	colIndex := make(map[string]int)
	type jsonRow struct {
		keys   []string
		values map[string]any
	}
	parsed := make([]jsonRow, 0, len(elements))

	for i, element := range elements {
		keys, values, err := decodeOrderedObject(element)
		if err != nil {
			return nil, &ProcessingError{Err: fmt.Errorf("transaction %d is not an object", i)}
		}
		for _, key := range keys {
			name := normalizeJSONColumn(key)
			if _, seen := colIndex[name]; !seen {
				colIndex[name] = len(columns)
				columns = append(columns, name)
			}
		}
		parsed = append(parsed, jsonRow{keys: keys, values: values})
	}

	rows := make([]Record, 0, len(parsed))
	for _, jr := range parsed {
		row := make(Record, len(columns))
		for _, key := range jr.keys {
			row[colIndex[normalizeJSONColumn(key)]] = cellText(jr.values[key])
		}
		rows = append(rows, row)
	}
	return newTable(columns, rows), nil
}

// decodeOrderedObject decodes a JSON object keeping key encounter order.
// Numbers are decoded as json.Number so cells keep their literal text.
func decodeOrderedObject(raw json.RawMessage) ([]string, map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errors.New("not a JSON object")
	}

	var keys []string
	values := make(map[string]any)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, errors.New("malformed object key")
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}
	return keys, values, nil
}

// cellText renders a decoded JSON value as cell text. Null becomes the null
// marker; numbers keep their literal text; nested values are re-encoded.
func cellText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
