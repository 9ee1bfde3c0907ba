package tabular

import (
	"errors"
	"fmt"
)

// Import errors - each failure mode is distinct, terminal, and never retried
var (
	ErrEmptyInput        = errors.New("input contains no data")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrCorruptData       = errors.New("unreadable or corrupt dataset bytes")
	ErrNoWorksheets      = errors.New("spreadsheet contains no worksheets")
	ErrNoValidRows       = errors.New("no valid data rows after filtering")
)

// NewUnsupportedFormatError reports a format the importer does not handle.
func NewUnsupportedFormatError(format string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// NewCorruptDataError wraps a parser failure with the import context.
func NewCorruptDataError(cause error) error {
	return fmt.Errorf("%w: %v", ErrCorruptData, cause)
}

// IsImportError reports whether err is one of the terminal import failures.
func IsImportError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrCorruptData) ||
		errors.Is(err, ErrNoWorksheets) ||
		errors.Is(err, ErrNoValidRows)
}
