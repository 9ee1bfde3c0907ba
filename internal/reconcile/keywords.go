package reconcile

import (
	"strings"

	"mailmerge/domain/merge"
)

// KeywordTable maps each semantic category to the keywords that imply it.
// The table is configuration, not inlined literals, so the heuristics can be
// audited and extended without touching the matching logic.
type KeywordTable map[merge.SemanticCategory][]string

// categoryOrder fixes the classification priority. Email, phone, and date
// keywords are checked before name keywords: a header like "Customer Email"
// carries both vocabularies and the more specific category must win.
var categoryOrder = []merge.SemanticCategory{
	merge.CategoryEmail,
	merge.CategoryPhone,
	merge.CategoryDate,
	merge.CategoryName,
}

// DefaultKeywords returns the built-in keyword sets.
func DefaultKeywords() KeywordTable {
	return KeywordTable{
		merge.CategoryName:  {"name", "customer", "client", "recipient"},
		merge.CategoryEmail: {"email", "e-mail", "mail"},
		merge.CategoryPhone: {"phone", "mobile", "cell", "contact"},
		merge.CategoryDate:  {"date", "expir", "due", "renew", "birth"},
	}
}

// Classify infers the semantic category of a token or column name from its
// cleaned text. Generic means no keyword matched.
func (t KeywordTable) Classify(text string) merge.SemanticCategory {
	normalized := strings.ToLower(text)
	for _, category := range categoryOrder {
		for _, keyword := range t[category] {
			if strings.Contains(normalized, keyword) {
				return category
			}
		}
	}
	return merge.CategoryGeneric
}

// FirstHeaderFor returns the first header whose normalized text contains any
// keyword of the category, or "" when none does.
func (t KeywordTable) FirstHeaderFor(category merge.SemanticCategory, headers []string) string {
	for _, header := range headers {
		normalized := strings.ToLower(header)
		for _, keyword := range t[category] {
			if strings.Contains(normalized, keyword) {
				return header
			}
		}
	}
	return ""
}
