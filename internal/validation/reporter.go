package validation

import (
	"fmt"
	"strings"

	"mailmerge/domain/merge"
	"mailmerge/domain/tabular"
	"mailmerge/internal/substitute"
)

// Thresholds holds the advisory limits for rendered messages and contact
// fields.
type Thresholds struct {
	MinMessageLength int `json:"min_message_length"`
	MaxMessageLength int `json:"max_message_length"`
	MinPhoneDigits   int `json:"min_phone_digits"`
	MaxPhoneDigits   int `json:"max_phone_digits"`
}

// DefaultThresholds returns the standard limits: a minimum plausible message
// length, a delivery-safe maximum, and the 10-15 digit phone window.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinMessageLength: 20,
		MaxMessageLength: 5000,
		MinPhoneDigits:   10,
		MaxPhoneDigits:   15,
	}
}

// Reporter inspects substitution results and source records and produces
// advisory warnings. It never mutates its inputs and never blocks output.
type Reporter struct {
	thresholds Thresholds
}

// NewReporter creates a reporter with the given thresholds.
func NewReporter(thresholds Thresholds) *Reporter {
	return &Reporter{thresholds: thresholds}
}

// Validate checks one rendered row. IsValid is false whenever any token
// resolved to an unmapped or missing sentinel; every other finding is a
// warning only.
func (r *Reporter) Validate(result merge.SubstitutionResult, record tabular.Record, contacts merge.ContactInfo) merge.ValidationReport {
	report := merge.ValidationReport{IsValid: true}

	if n := result.UnmappedCount(); n > 0 {
		report.IsValid = false
		report.Warnings = append(report.Warnings, merge.Warning{
			Code:    merge.WarnUnmappedFields,
			Message: fmt.Sprintf("%d field(s) have no mapped column", n),
		})
	}
	if n := result.MissingCount(); n > 0 {
		report.IsValid = false
		report.Warnings = append(report.Warnings, merge.Warning{
			Code:    merge.WarnMissingFields,
			Message: fmt.Sprintf("%d field(s) have no value in this row", n),
		})
	}

	if length := len(result.Message); length < r.thresholds.MinMessageLength {
		report.Warnings = append(report.Warnings, merge.Warning{
			Code:    merge.WarnMessageShort,
			Message: fmt.Sprintf("rendered message is only %d characters", length),
		})
	} else if length > r.thresholds.MaxMessageLength {
		report.Warnings = append(report.Warnings, merge.Warning{
			Code:    merge.WarnMessageLong,
			Message: fmt.Sprintf("rendered message is %d characters, over the delivery-safe limit", length),
		})
	}

	if contacts.Email != "" && !LooksLikeEmail(contacts.Email) {
		report.Warnings = append(report.Warnings, merge.Warning{
			Code:    merge.WarnBadEmail,
			Message: fmt.Sprintf("email %q does not look like an address", contacts.Email),
		})
	}
	if contacts.Phone != "" {
		digits := substitute.PhoneDigits(contacts.Phone)
		if len(digits) < r.thresholds.MinPhoneDigits || len(digits) > r.thresholds.MaxPhoneDigits {
			report.Warnings = append(report.Warnings, merge.Warning{
				Code:    merge.WarnBadPhone,
				Message: fmt.Sprintf("phone has %d digits, outside the %d-%d plausible range", len(digits), r.thresholds.MinPhoneDigits, r.thresholds.MaxPhoneDigits),
			})
		}
	}

	return report
}

// LooksLikeEmail is a structural check, not RFC parsing: one @ away from the
// edges and a dotted domain of plausible length.
func LooksLikeEmail(val string) bool {
	v := strings.TrimSpace(val)
	if len(v) < 5 || len(v) > 254 {
		return false
	}
	at := strings.LastIndex(v, "@")
	if at < 1 || at >= len(v)-1 {
		return false
	}
	domain := v[at+1:]
	return strings.Contains(domain, ".") && len(domain) >= 3
}
