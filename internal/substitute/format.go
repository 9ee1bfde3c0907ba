package substitute

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"mailmerge/domain/merge"
)

// SerialDateConfig documents the assumed spreadsheet serial-date convention.
// Defaults follow the 1900 date system: day zero 1899-12-30 UTC, 25569 days
// before the Unix epoch. The offset is configurable because the historical
// 1900 leap-year quirk means other engines disagree by a day.
type SerialDateConfig struct {
	EpochOffsetDays int     `json:"epoch_offset_days"`
	MinSerial       float64 `json:"min_serial"`
	MaxSerial       float64 `json:"max_serial"`
}

// DefaultSerialDateConfig returns the 1900 date system with a plausible
// serial window of roughly 1954 through 2119.
func DefaultSerialDateConfig() SerialDateConfig {
	return SerialDateConfig{
		EpochOffsetDays: 25569,
		MinSerial:       20000,
		MaxSerial:       80000,
	}
}

// dateLayouts are the candidate layouts tried before the serial fallback,
// most common spreadsheet display forms first.
var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"1/2/06",
	"January 2, 2006",
	"Jan 2, 2006",
	"2-Jan-06",
	"2-Jan-2006",
	"2006/01/02",
	"01-02-2006",
	time.RFC3339,
}

// FormatValue applies the category-specific formatting rule to a raw cell
// value. Every rule degrades to the raw string rather than failing.
func FormatValue(raw string, category merge.SemanticCategory, serial SerialDateConfig) string {
	switch category {
	case merge.CategoryDate:
		return formatDate(raw, serial)
	case merge.CategoryName:
		return FormatName(raw)
	case merge.CategoryEmail:
		return strings.ToLower(strings.TrimSpace(raw))
	case merge.CategoryPhone:
		return FormatPhone(raw)
	default:
		return strings.TrimSpace(raw)
	}
}

// formatDate renders a long-form calendar date. It first tries standard date
// strings, then reinterprets plausible numerics as spreadsheet serial days;
// cell formatting decides which of the two shapes the importer hands us for
// the same logical date. Unparseable values pass through unchanged.
func formatDate(raw string, serial SerialDateConfig) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return value
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("January 2, 2006")
		}
	}

	if days, err := strconv.ParseFloat(value, 64); err == nil {
		if days >= serial.MinSerial && days <= serial.MaxSerial {
			dayZero := time.Unix(0, 0).UTC().AddDate(0, 0, -serial.EpochOffsetDays)
			t := dayZero.Add(time.Duration(days * 24 * float64(time.Hour)))
			return t.Format("January 2, 2006")
		}
	}

	return value
}

// FormatName lowercases the value and title-cases each word, preserving the
// conventional capitalization of Mc-prefixed and apostrophe particles:
// "MCDONALD" -> "McDonald", "o'brien" -> "O'Brien".
func FormatName(raw string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	for i, word := range words {
		words[i] = titleParticle(word)
	}
	return strings.Join(words, " ")
}

func titleParticle(word string) string {
	if idx := strings.Index(word, "'"); idx > 0 && idx < len(word)-1 {
		left := titleParticle(word[:idx])
		right := word[idx+1:]
		// possessive tail stays lower: "mcdonald's" -> "McDonald's"
		if len(right) == 1 {
			return left + "'" + right
		}
		return left + "'" + titleParticle(right)
	}
	if strings.HasPrefix(word, "mc") && len(word) > 2 {
		return "Mc" + capitalize(word[2:])
	}
	return capitalize(word)
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(word)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

var nonDigits = regexp.MustCompile(`\D`)

// FormatPhone strips non-digit characters and formats North American
// numbers: 10 digits as (AAA) BBB-CCCC, 11 digits with a leading 1 as
// +1 (AAA) BBB-CCCC. Anything else is returned as received.
func FormatPhone(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	switch {
	case len(digits) == 10:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	case len(digits) == 11 && digits[0] == '1':
		return "+1 (" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:]
	default:
		return strings.TrimSpace(raw)
	}
}

// PhoneDigits returns just the digit characters of a phone value, for
// plausibility checks.
func PhoneDigits(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}
