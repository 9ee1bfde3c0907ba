package substitute

import (
	"fmt"
	"regexp"

	"mailmerge/domain/merge"
	"mailmerge/domain/tabular"
	"mailmerge/internal/extract"
)

// Sentinels holds the in-band marker formats embedded in place of values
// that could not be resolved. Markers are output text, never errors, so a
// reviewer can scan the rendered message before sending.
type Sentinels struct {
	UnmappedFormat string `json:"unmapped_format"` // receives the token name
	MissingFormat  string `json:"missing_format"`  // receives the column name
}

// DefaultSentinels returns the standard marker formats.
func DefaultSentinels() Sentinels {
	return Sentinels{
		UnmappedFormat: "[UNMAPPED: %s]",
		MissingFormat:  "[MISSING: %s]",
	}
}

// Engine renders a template against one record under a confirmed mapping.
// The engine holds no cross-call state; every call is independent.
type Engine struct {
	serial    SerialDateConfig
	sentinels Sentinels
}

// NewEngine creates a substitution engine.
func NewEngine(serial SerialDateConfig, sentinels Sentinels) *Engine {
	return &Engine{serial: serial, sentinels: sentinels}
}

// NewDefaultEngine creates an engine with the default conventions.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultSerialDateConfig(), DefaultSentinels())
}

// Substitute replaces every unique placeholder token in the template with the
// record's formatted value, an unmapped marker, or a missing marker. The
// presence of a marker means "this row needs attention", never a hard
// failure; message generation always succeeds.
func (e *Engine) Substitute(template string, record tabular.Record, mapping merge.FieldMapping, cats merge.CategorySet) merge.SubstitutionResult {
	tokens := extract.Tokens(template)

	message := template
	results := make([]merge.TokenResult, 0, len(tokens))
	for _, token := range tokens {
		tr := e.resolveToken(token, record, mapping, cats)
		results = append(results, tr)

		// Literal-pattern replacement across all occurrences of the token.
		pattern := regexp.MustCompile(regexp.QuoteMeta(token.Literal))
		message = pattern.ReplaceAllLiteralString(message, tr.Value)
	}

	return merge.SubstitutionResult{Message: message, Tokens: results}
}

func (e *Engine) resolveToken(token merge.PlaceholderToken, record tabular.Record, mapping merge.FieldMapping, cats merge.CategorySet) merge.TokenResult {
	if !mapping.IsMapped(token.Literal) {
		return merge.TokenResult{
			Token:    token,
			Category: merge.CategoryGeneric,
			Outcome:  merge.OutcomeUnmapped,
			Value:    fmt.Sprintf(e.sentinels.UnmappedFormat, token.Name()),
		}
	}

	column := mapping[token.Literal]
	category := cats.For(token.Literal, column)

	raw, found := LookupValue(record, column)
	if !found || raw == "" {
		return merge.TokenResult{
			Token:    token,
			Column:   column,
			Category: category,
			Outcome:  merge.OutcomeMissing,
			Value:    fmt.Sprintf(e.sentinels.MissingFormat, column),
		}
	}

	return merge.TokenResult{
		Token:    token,
		Column:   column,
		Category: category,
		Outcome:  merge.OutcomeReplaced,
		Value:    FormatValue(raw, category, e.serial),
	}
}

// ResolveContacts resolves and formats the designated email and phone columns
// for one record. The messaging layer consumes these strings directly; this
// core never builds a URI from them. Empty selections yield empty fields.
func (e *Engine) ResolveContacts(record tabular.Record, emailColumn, phoneColumn string) merge.ContactInfo {
	var info merge.ContactInfo
	if emailColumn != "" {
		if raw, ok := LookupValue(record, emailColumn); ok {
			info.Email = FormatValue(raw, merge.CategoryEmail, e.serial)
		}
	}
	if phoneColumn != "" {
		if raw, ok := LookupValue(record, phoneColumn); ok {
			info.Phone = FormatValue(raw, merge.CategoryPhone, e.serial)
		}
	}
	return info
}
