package tabular

import (
	"strings"

	"mailmerge/domain/core"
)

// HeaderSet is the ordered list of cleaned, unique column names discovered at
// import time. No two entries are equal after case/whitespace normalization;
// positions match the source columns.
type HeaderSet []string

// Contains reports whether the set holds the exact column name.
func (h HeaderSet) Contains(name string) bool {
	for _, col := range h {
		if col == name {
			return true
		}
	}
	return false
}

// Normalize lowercases a column name and strips all whitespace. Used whenever
// two column vocabularies need to be compared.
func Normalize(name string) string {
	lower := strings.ToLower(name)
	return strings.Join(strings.Fields(lower), "")
}

// Record maps a column name from the HeaderSet to its cleaned cell value for
// one data row. Records are created once at import time and never mutated;
// every Record in an ImportResult has exactly the HeaderSet as its key set.
type Record map[string]string

// Get returns the value for an exact column name.
func (r Record) Get(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// ImportResult is the normalized output of a tabular import.
type ImportResult struct {
	ID          core.DatasetID `json:"id"`
	Headers     HeaderSet      `json:"headers"`
	Records     []Record       `json:"records"`
	SourceName  string         `json:"source_name,omitempty"`
	Format      string         `json:"format"`
	SheetName   string         `json:"sheet_name,omitempty"`
	HeaderRow   int            `json:"header_row"`
	DroppedRows int            `json:"dropped_rows"`
	Diagnostics []string       `json:"diagnostics,omitempty"`
	ImportedAt  core.Timestamp `json:"imported_at"`
}
