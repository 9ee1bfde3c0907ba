package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"strings"
	"time"

	"mailmerge/domain/core"
	"mailmerge/domain/tabular"

	"github.com/xuri/excelize/v2"
)

// Config defines the header discovery and row filtering heuristics
type Config struct {
	HeaderScanLimit int `json:"header_scan_limit"` // rows inspected while looking for the header
	MinHeaderCells  int `json:"min_header_cells"`  // non-empty cells required to accept a header row
	MinRowCells     int `json:"min_row_cells"`     // non-empty cells required to retain a data row
}

// DefaultConfig returns the heuristics tuned for typical spreadsheet exports
func DefaultConfig() Config {
	return Config{
		HeaderScanLimit: 25,
		MinHeaderCells:  3,
		MinRowCells:     2,
	}
}

// Importer parses raw delimited or spreadsheet bytes into an ImportResult
// with discovered headers and one Record per retained data row.
type Importer struct {
	config Config
}

// NewImporter creates an importer with the given heuristics
func NewImporter(config Config) *Importer {
	return &Importer{config: config}
}

// Import parses raw bytes in the declared format. Supported formats are
// delimited text ("csv", "txt", "tsv") and spreadsheet containers ("xlsx",
// "xlsm", "xls"). Every failure mode maps to a distinct tabular error and is
// terminal; the caller never retries.
func (im *Importer) Import(data []byte, format string) (*tabular.ImportResult, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, tabular.ErrEmptyInput
	}

	normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	log.Printf("[Importer] Importing %d bytes as %s", len(data), normalized)

	switch normalized {
	case "csv", "txt", "tsv":
		return im.importDelimited(data, normalized)
	case "xlsx", "xlsm", "xls":
		return im.importSpreadsheet(data, normalized)
	default:
		return nil, tabular.NewUnsupportedFormatError(format)
	}
}

// importDelimited reads delimiter-separated text. The first row is always the
// header row; delimiters are sniffed from a fixed candidate set.
func (im *Importer) importDelimited(data []byte, format string) (*tabular.ImportResult, error) {
	text := stripBOM(data)

	delimiter := SniffDelimiter(string(text))
	log.Printf("[Importer] Sniffed delimiter %q", delimiter)

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, tabular.NewCorruptDataError(err)
	}
	if len(rows) == 0 {
		return nil, tabular.ErrEmptyInput
	}

	result, err := im.buildResult(rows, 0, nil)
	if err != nil {
		return nil, err
	}
	result.Format = format
	return result, nil
}

// importSpreadsheet reads a spreadsheet container. The sheet with the most
// rows wins; header discovery then scans that sheet for the first plausible
// header row, because real exports often prepend title or logo rows.
func (im *Importer) importSpreadsheet(data []byte, format string) (*tabular.ImportResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, tabular.NewCorruptDataError(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, tabular.ErrNoWorksheets
	}

	var bestSheet string
	var bestRows [][]string
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		if len(rows) > len(bestRows) {
			bestSheet = sheet
			bestRows = rows
		}
	}
	if len(bestRows) == 0 {
		return nil, tabular.ErrEmptyInput
	}
	log.Printf("[Importer] Selected sheet %q (%d rows of %d sheets)", bestSheet, len(bestRows), len(sheets))

	var diagnostics []string
	headerIdx, found := DiscoverHeaderRow(bestRows, im.config.HeaderScanLimit, im.config.MinHeaderCells)
	if !found {
		headerIdx = 0
		diagnostics = append(diagnostics,
			fmt.Sprintf("no row with at least %d non-empty cells in the first %d rows; using row 0 as header",
				im.config.MinHeaderCells, im.config.HeaderScanLimit))
	}

	result, err := im.buildResult(bestRows, headerIdx, diagnostics)
	if err != nil {
		return nil, err
	}
	result.Format = format
	result.SheetName = bestSheet
	return result, nil
}

// buildResult turns raw rows into cleaned headers and records. Cell values
// arrive as display strings (excelize applies the cell's number format, so
// date-typed cells are already locale-formatted); cleaning only trims them.
func (im *Importer) buildResult(rows [][]string, headerIdx int, diagnostics []string) (*tabular.ImportResult, error) {
	headers := CleanHeaders(rows[headerIdx])

	records := make([]tabular.Record, 0, len(rows)-headerIdx-1)
	dropped := 0
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		nonEmpty := 0
		record := make(tabular.Record, len(headers))
		for j, header := range headers {
			value := ""
			if j < len(row) {
				value = strings.TrimSpace(row[j])
			}
			if value != "" {
				nonEmpty++
			}
			record[header] = value
		}
		if nonEmpty < im.config.MinRowCells {
			dropped++
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, tabular.ErrNoValidRows
	}
	if dropped > 0 {
		diagnostics = append(diagnostics, fmt.Sprintf("dropped %d near-empty rows", dropped))
	}
	log.Printf("[Importer] Built %d records (%d columns, %d rows dropped)", len(records), len(headers), dropped)

	return &tabular.ImportResult{
		ID:          core.DatasetID(core.NewID()),
		Headers:     headers,
		Records:     records,
		HeaderRow:   headerIdx,
		DroppedRows: dropped,
		Diagnostics: diagnostics,
		ImportedAt:  core.NewTimestamp(time.Now()),
	}, nil
}

// stripBOM removes a UTF-8 byte order mark if present
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
}
