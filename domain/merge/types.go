package merge

import (
	"strings"
)

// PlaceholderToken is one bracketed token found in a template. Literal is the
// exact text as it appears, brackets included; Canonical is the bracket-
// stripped, case-folded, space-free form used only for matching.
type PlaceholderToken struct {
	Literal   string `json:"literal"`
	Canonical string `json:"canonical"`
}

// NewPlaceholderToken derives the canonical form from the literal bracketed
// text.
func NewPlaceholderToken(literal string) PlaceholderToken {
	inner := strings.Trim(literal, "[]")
	canonical := strings.ToLower(inner)
	canonical = strings.Join(strings.Fields(canonical), "")
	return PlaceholderToken{Literal: literal, Canonical: canonical}
}

// Name returns the token text without brackets, for display.
func (t PlaceholderToken) Name() string {
	return strings.TrimSpace(strings.Trim(t.Literal, "[]"))
}

// SemanticCategory classifies a token or column for formatting purposes.
type SemanticCategory string

const (
	CategoryName    SemanticCategory = "name"
	CategoryEmail   SemanticCategory = "email"
	CategoryPhone   SemanticCategory = "phone"
	CategoryDate    SemanticCategory = "date"
	CategoryGeneric SemanticCategory = "generic"
)

// ResolveCategory picks the effective category for formatting when the token
// and its mapped column disagree: the token wins if it is non-generic.
func ResolveCategory(token, column SemanticCategory) SemanticCategory {
	if token != CategoryGeneric && token != "" {
		return token
	}
	if column != "" {
		return column
	}
	return CategoryGeneric
}

// CategorySet bundles the independent token and column classifications for a
// render run.
type CategorySet struct {
	Tokens  map[string]SemanticCategory `json:"tokens"`  // token literal -> category
	Headers map[string]SemanticCategory `json:"headers"` // column name -> category
}

// For returns the effective category for a token mapped to a column.
func (c CategorySet) For(tokenLiteral, column string) SemanticCategory {
	return ResolveCategory(c.Tokens[tokenLiteral], c.Headers[column])
}

// Unmapped marks a token the reconciler could not place. It is a state, not
// an error; the reviewer resolves it before the mapping is finalized.
const Unmapped = ""

// FieldMapping maps a token's literal form to a column name in the HeaderSet,
// or to Unmapped.
type FieldMapping map[string]string

// IsMapped reports whether the token literal has a confirmed column.
func (m FieldMapping) IsMapped(literal string) bool {
	col, ok := m[literal]
	return ok && col != Unmapped
}

// UnmappedTokens returns the literals that still need reviewer attention.
func (m FieldMapping) UnmappedTokens() []string {
	var out []string
	for literal, col := range m {
		if col == Unmapped {
			out = append(out, literal)
		}
	}
	return out
}

// TokenOutcome records what happened to one token during substitution.
type TokenOutcome string

const (
	OutcomeReplaced TokenOutcome = "replaced"
	OutcomeMissing  TokenOutcome = "missing"
	OutcomeUnmapped TokenOutcome = "unmapped"
)

// TokenResult is the per-token log entry in a SubstitutionResult.
type TokenResult struct {
	Token    PlaceholderToken `json:"token"`
	Column   string           `json:"column,omitempty"`
	Category SemanticCategory `json:"category"`
	Outcome  TokenOutcome     `json:"outcome"`
	Value    string           `json:"value,omitempty"`
}

// SubstitutionResult is the rendered message plus the per-token outcome log.
// Sentinel markers for missing or unmapped values are embedded in Message so
// a reviewer can scan the rendered text directly.
type SubstitutionResult struct {
	Message string        `json:"message"`
	Tokens  []TokenResult `json:"tokens"`
}

// ReplacedCount returns how many tokens resolved to a real value.
func (r SubstitutionResult) ReplacedCount() int {
	return r.countOutcome(OutcomeReplaced)
}

// MissingCount returns how many tokens hit an empty or absent row value.
func (r SubstitutionResult) MissingCount() int {
	return r.countOutcome(OutcomeMissing)
}

// UnmappedCount returns how many tokens had no confirmed column.
func (r SubstitutionResult) UnmappedCount() int {
	return r.countOutcome(OutcomeUnmapped)
}

func (r SubstitutionResult) countOutcome(o TokenOutcome) int {
	n := 0
	for _, t := range r.Tokens {
		if t.Outcome == o {
			n++
		}
	}
	return n
}

// ContactInfo carries the resolved, display-formatted destination fields the
// messaging layer consumes. This core never builds URIs from them.
type ContactInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// WarningCode identifies a class of validation warning.
type WarningCode string

const (
	WarnUnmappedFields WarningCode = "unmapped_fields"
	WarnMissingFields  WarningCode = "missing_fields"
	WarnMessageShort   WarningCode = "message_too_short"
	WarnMessageLong    WarningCode = "message_too_long"
	WarnBadEmail       WarningCode = "malformed_email"
	WarnBadPhone       WarningCode = "implausible_phone"
)

// Warning is one advisory finding about a rendered message or its source row.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// ValidationReport summarizes the advisory checks for one rendered row.
// IsValid is false whenever any token resolved to a sentinel; warnings never
// block output.
type ValidationReport struct {
	IsValid  bool      `json:"is_valid"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// HasWarning reports whether the report contains a warning with the code.
func (r ValidationReport) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
