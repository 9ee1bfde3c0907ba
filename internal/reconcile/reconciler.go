package reconcile

import (
	"log"
	"strings"

	"mailmerge/domain/merge"
	"mailmerge/domain/tabular"
)

// Reconciler maps placeholder tokens to their best-guess columns and
// classifies both vocabularies into semantic categories.
type Reconciler struct {
	keywords KeywordTable
}

// NewReconciler creates a reconciler with the given keyword table.
func NewReconciler(keywords KeywordTable) *Reconciler {
	return &Reconciler{keywords: keywords}
}

// matchStrategy proposes a column for one token, or "" when it has no
// candidate. Strategies run in priority order; the first hit wins.
type matchStrategy func(r *Reconciler, token merge.PlaceholderToken, headers tabular.HeaderSet) string

var matchStrategies = []matchStrategy{
	(*Reconciler).matchExactNormalized,
	(*Reconciler).matchSubstring,
	(*Reconciler).matchCategoryFallback,
}

// Reconcile produces a draft mapping from token literal to column name.
// Tokens with no confident guess stay unmapped: the system never defaults a
// column, because silently misrouting data such as an email address is worse
// than asking the reviewer.
func (r *Reconciler) Reconcile(tokens []merge.PlaceholderToken, headers tabular.HeaderSet) merge.FieldMapping {
	mapping := make(merge.FieldMapping, len(tokens))
	unmapped := 0
	for _, token := range tokens {
		column := merge.Unmapped
		for _, strategy := range matchStrategies {
			if guess := strategy(r, token, headers); guess != "" {
				column = guess
				break
			}
		}
		if column == merge.Unmapped {
			unmapped++
		}
		mapping[token.Literal] = column
	}
	log.Printf("[Reconciler] Drafted mapping for %d tokens (%d unmapped)", len(tokens), unmapped)
	return mapping
}

// matchExactNormalized matches when token and column are equal after
// case-folding and whitespace stripping.
func (r *Reconciler) matchExactNormalized(token merge.PlaceholderToken, headers tabular.HeaderSet) string {
	for _, header := range headers {
		if normalizeLoose(header) == normalizeLoose(token.Name()) {
			return header
		}
	}
	return ""
}

// matchSubstring matches on containment in either direction after
// normalization.
func (r *Reconciler) matchSubstring(token merge.PlaceholderToken, headers tabular.HeaderSet) string {
	canonical := normalizeLoose(token.Name())
	if canonical == "" {
		return ""
	}
	for _, header := range headers {
		normalized := normalizeLoose(header)
		if strings.Contains(normalized, canonical) || strings.Contains(canonical, normalized) {
			return header
		}
	}
	return ""
}

// matchCategoryFallback classifies the token and, when it lands in a
// non-generic category, proposes the first header sharing that category's
// keywords.
func (r *Reconciler) matchCategoryFallback(token merge.PlaceholderToken, headers tabular.HeaderSet) string {
	category := r.keywords.Classify(token.Name())
	if category == merge.CategoryGeneric {
		return ""
	}
	return r.keywords.FirstHeaderFor(category, headers)
}

// ClassifyToken infers the semantic category of one placeholder token.
func (r *Reconciler) ClassifyToken(token merge.PlaceholderToken) merge.SemanticCategory {
	return r.keywords.Classify(token.Name())
}

// ClassifyHeaders classifies every column independently so the substitution
// engine can format by the column's category as well as the token's.
func (r *Reconciler) ClassifyHeaders(headers tabular.HeaderSet) map[string]merge.SemanticCategory {
	categories := make(map[string]merge.SemanticCategory, len(headers))
	for _, header := range headers {
		categories[header] = r.keywords.Classify(header)
	}
	return categories
}

// ClassifyAll classifies both vocabularies in one pass.
func (r *Reconciler) ClassifyAll(tokens []merge.PlaceholderToken, headers tabular.HeaderSet) merge.CategorySet {
	tokenCats := make(map[string]merge.SemanticCategory, len(tokens))
	for _, token := range tokens {
		tokenCats[token.Literal] = r.ClassifyToken(token)
	}
	return merge.CategorySet{
		Tokens:  tokenCats,
		Headers: r.ClassifyHeaders(headers),
	}
}

// normalizeLoose lowercases and removes every whitespace and underscore run,
// so "Expiration Date" and "Expiration_Date" compare equal.
func normalizeLoose(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.Join(strings.Fields(s), "")
}
