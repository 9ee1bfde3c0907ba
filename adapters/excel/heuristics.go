package excel

import (
	"fmt"
	"regexp"
	"strings"

	"mailmerge/domain/tabular"
)

// delimiterCandidates is the fixed set considered during sniffing, in
// tie-break order.
var delimiterCandidates = []rune{',', '\t', '|', ';'}

// SniffDelimiter picks the most frequent candidate delimiter across the first
// lines of delimited text. Comma wins ties by candidate order.
func SniffDelimiter(text string) rune {
	lines := strings.Split(text, "\n")
	sample := lines
	if len(sample) > 10 {
		sample = sample[:10]
	}

	counts := make(map[rune]int, len(delimiterCandidates))
	for _, line := range sample {
		for _, candidate := range delimiterCandidates {
			counts[candidate] += strings.Count(line, string(candidate))
		}
	}

	best := delimiterCandidates[0]
	for _, candidate := range delimiterCandidates[1:] {
		if counts[candidate] > counts[best] {
			best = candidate
		}
	}
	return best
}

// DiscoverHeaderRow scans at most scanLimit rows for the first row with at
// least minCells non-empty cells and returns its index. The second return is
// false when no row qualifies.
func DiscoverHeaderRow(rows [][]string, scanLimit, minCells int) (int, bool) {
	limit := scanLimit
	if limit > len(rows) {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		nonEmpty := 0
		for _, cell := range rows[i] {
			if strings.TrimSpace(cell) != "" {
				nonEmpty++
			}
		}
		if nonEmpty >= minCells {
			return i, true
		}
	}
	return 0, false
}

// headerCharset strips everything a column name cannot carry downstream.
var headerCharset = regexp.MustCompile(`[^A-Za-z0-9 _-]+`)

// CleanHeader trims, collapses internal whitespace, and strips characters
// outside the allowed set. The result may be empty.
func CleanHeader(raw string) string {
	cleaned := headerCharset.ReplaceAllString(raw, "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// CleanHeaders cleans a raw header row into a HeaderSet. Empty cells become
// Unknown_<index> to preserve positional integrity, and later duplicates get
// a positional suffix so no two entries collide after normalization.
func CleanHeaders(raw []string) tabular.HeaderSet {
	headers := make(tabular.HeaderSet, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for i, cell := range raw {
		name := CleanHeader(cell)
		if name == "" {
			name = fmt.Sprintf("Unknown_%d", i)
		}
		if seen[tabular.Normalize(name)] {
			name = fmt.Sprintf("%s_%d", name, i)
		}
		seen[tabular.Normalize(name)] = true
		headers = append(headers, name)
	}
	return headers
}
