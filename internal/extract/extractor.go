package extract

import (
	"regexp"

	"mailmerge/adapters/markup"
	"mailmerge/domain/merge"
)

// tokenPattern matches one or more opening brackets, any run of non-bracket
// characters, and one or more closing brackets. The grammar is deliberately
// permissive: doubled or malformed bracket sequences from converted documents
// still match, and a human reviews the extracted list before the mapping is
// finalized, so over-matching is the safe direction.
var tokenPattern = regexp.MustCompile(`\[+[^\[\]]+\]+`)

// Tokens scans visible template text for bracketed placeholder tokens and
// returns them in order of first appearance, deduplicated by literal form.
// The content is not validated; any visible text can be a placeholder name.
func Tokens(plainText string) []merge.PlaceholderToken {
	matches := tokenPattern.FindAllString(plainText, -1)

	seen := make(map[string]bool, len(matches))
	tokens := make([]merge.PlaceholderToken, 0, len(matches))
	for _, literal := range matches {
		if seen[literal] {
			continue
		}
		seen[literal] = true
		tokens = append(tokens, merge.NewPlaceholderToken(literal))
	}
	return tokens
}

// FromMarkup strips markup tags and extracts tokens from the remaining
// visible text.
func FromMarkup(markupText string) []merge.PlaceholderToken {
	return Tokens(markup.StripTags(markupText))
}
