package salesrank

import "errors"

var (
	// ErrInvalidJSONStructure is returned by Detect when input parses as JSON
	// but the envelope lacks the top-level 'transactions' key. The error text
	// is the exact message rendered into the response.
	ErrInvalidJSONStructure = errors.New("ERROR: Invalid JSON structure. Must contain 'transactions' key.")

	// ErrInvalidDataFormat is returned by Detect when input is neither
	// recognizable CSV nor parseable JSON. The error text is the exact message
	// rendered into the response.
	ErrInvalidDataFormat = errors.New("ERROR: Invalid data format. Please provide your data in CSV or JSON format.")

	// ErrNotValidated indicates an operation that requires a fully validated
	// analysis was given one that failed validation
	ErrNotValidated = errors.New("salesrank: analysis did not pass validation")

	// ErrEmptyFile indicates an input file with no content
	ErrEmptyFile = errors.New("salesrank: empty input file")

	// ErrUnsupportedFormat indicates an unsupported file or export format
	ErrUnsupportedFormat = errors.New("salesrank: unsupported file format")

	// ErrUnsupportedCompression indicates a compression type the requested
	// operation cannot serve
	ErrUnsupportedCompression = errors.New("salesrank: unsupported compression type")
)

// ProcessingError reports an unexpected failure while turning raw input into
// a table (malformed CSV rows, a non-array 'transactions' value, and so on).
// Error() is the exact message rendered into the response.
type ProcessingError struct {
	Err error
}

// Error returns the user-facing processing failure message.
func (e *ProcessingError) Error() string {
	return "ERROR: Data processing failed. " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *ProcessingError) Unwrap() error {
	return e.Err
}
