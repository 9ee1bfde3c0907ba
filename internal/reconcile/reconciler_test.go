package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mailmerge/domain/merge"
	"mailmerge/domain/tabular"
)

func token(literal string) merge.PlaceholderToken {
	return merge.NewPlaceholderToken(literal)
}

func TestReconcile_MatchingPriority(t *testing.T) {
	reconciler := NewReconciler(DefaultKeywords())

	tests := []struct {
		name    string
		token   string
		headers tabular.HeaderSet
		want    string
	}{
		{
			"exact after normalization",
			"[Expiration Date]",
			tabular.HeaderSet{"Policy Number", "Expiration_Date"},
			"Expiration_Date",
		},
		{
			"case folded exact",
			"[EMAIL]",
			tabular.HeaderSet{"Name", "Email"},
			"Email",
		},
		{
			"substring token in column",
			"[Name]",
			tabular.HeaderSet{"Customer Name", "Email"},
			"Customer Name",
		},
		{
			"substring column in token",
			"[Customer Email Address]",
			tabular.HeaderSet{"Email", "Phone"},
			"Email",
		},
		{
			"category fallback via phone keywords",
			"[Customer Phone Number]",
			tabular.HeaderSet{"Full Legal Designation", "Mobile"},
			"Mobile",
		},
		{
			"category fallback via date keywords",
			"[Renewal Day]",
			tabular.HeaderSet{"Name", "Due"},
			"Due",
		},
		{
			"no candidate stays unmapped",
			"[Favorite Color]",
			tabular.HeaderSet{"Name", "Email"},
			merge.Unmapped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapping := reconciler.Reconcile([]merge.PlaceholderToken{token(tt.token)}, tt.headers)
			assert.Equal(t, tt.want, mapping[tt.token])
		})
	}
}

func TestReconcile_NeverGuessesDefault(t *testing.T) {
	reconciler := NewReconciler(DefaultKeywords())

	// A generic token must not fall through to some arbitrary column.
	mapping := reconciler.Reconcile(
		[]merge.PlaceholderToken{token("[Account Balance]")},
		tabular.HeaderSet{"Email", "Phone", "Name"},
	)
	assert.False(t, mapping.IsMapped("[Account Balance]"))
	assert.Equal(t, []string{"[Account Balance]"}, mapping.UnmappedTokens())
}

func TestClassify(t *testing.T) {
	keywords := DefaultKeywords()

	tests := []struct {
		text string
		want merge.SemanticCategory
	}{
		{"Customer Name", merge.CategoryName},
		{"Client", merge.CategoryName},
		{"Email Address", merge.CategoryEmail},
		{"E-Mail", merge.CategoryEmail},
		{"Mobile", merge.CategoryPhone},
		{"cell number", merge.CategoryPhone},
		{"Expiration Date", merge.CategoryDate},
		{"Renews On", merge.CategoryDate},
		{"Birth Day", merge.CategoryDate},
		{"Policy Number", merge.CategoryGeneric},
		// Specific categories outrank the name keywords.
		{"Customer Email", merge.CategoryEmail},
		{"Client Phone", merge.CategoryPhone},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, keywords.Classify(tt.text))
		})
	}
}

func TestClassifyAll(t *testing.T) {
	reconciler := NewReconciler(DefaultKeywords())

	tokens := []merge.PlaceholderToken{token("[Customer Name]"), token("[Policy Number]")}
	headers := tabular.HeaderSet{"Email", "Mobile", "Expiration_Date", "Ref"}

	cats := reconciler.ClassifyAll(tokens, headers)

	assert.Equal(t, merge.CategoryName, cats.Tokens["[Customer Name]"])
	assert.Equal(t, merge.CategoryGeneric, cats.Tokens["[Policy Number]"])
	assert.Equal(t, merge.CategoryEmail, cats.Headers["Email"])
	assert.Equal(t, merge.CategoryPhone, cats.Headers["Mobile"])
	assert.Equal(t, merge.CategoryDate, cats.Headers["Expiration_Date"])
	assert.Equal(t, merge.CategoryGeneric, cats.Headers["Ref"])

	// Token category wins when non-generic; otherwise the column's applies.
	assert.Equal(t, merge.CategoryName, cats.For("[Customer Name]", "Email"))
	assert.Equal(t, merge.CategoryDate, cats.For("[Policy Number]", "Expiration_Date"))
}
