package substitute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailmerge/domain/merge"
	"mailmerge/domain/tabular"
	"mailmerge/internal/extract"
)

func testCategories() merge.CategorySet {
	return merge.CategorySet{
		Tokens: map[string]merge.SemanticCategory{
			"[Customer Name]":   merge.CategoryName,
			"[Expiration Date]": merge.CategoryDate,
			"[Email Address]":   merge.CategoryEmail,
			"[Phone]":           merge.CategoryPhone,
			"[Policy Number]":   merge.CategoryGeneric,
		},
		Headers: map[string]merge.SemanticCategory{
			"Customer Name":   merge.CategoryName,
			"Expiration_Date": merge.CategoryDate,
			"Email":           merge.CategoryEmail,
			"Mobile":          merge.CategoryPhone,
			"Policy Number":   merge.CategoryGeneric,
		},
	}
}

func testRecord() tabular.Record {
	return tabular.Record{
		"Customer Name":   "JOHN MCDONALD",
		"Expiration_Date": "45000",
		"Email":           "John.McDonald@Example.COM",
		"Mobile":          "7725551234",
		"Policy Number":   "P-1001",
	}
}

func testMapping() merge.FieldMapping {
	return merge.FieldMapping{
		"[Customer Name]":   "Customer Name",
		"[Expiration Date]": "Expiration_Date",
		"[Email Address]":   "Email",
		"[Phone]":           "Mobile",
		"[Policy Number]":   "Policy Number",
	}
}

func TestSubstitute_FullyMapped(t *testing.T) {
	engine := NewDefaultEngine()
	template := "Dear [Customer Name], policy [Policy Number] expires [Expiration Date]. " +
		"We will email [Email Address] or call [Phone]."

	result := engine.Substitute(template, testRecord(), testMapping(), testCategories())

	assert.Equal(t,
		"Dear John McDonald, policy P-1001 expires March 15, 2023. "+
			"We will email john.mcdonald@example.com or call (772) 555-1234.",
		result.Message)
	assert.Equal(t, 5, result.ReplacedCount())
	assert.Zero(t, result.MissingCount())
	assert.Zero(t, result.UnmappedCount())

	// Round trip: no bracketed tokens remain in a clean render.
	assert.Empty(t, extract.Tokens(result.Message))
}

func TestSubstitute_UnmappedToken(t *testing.T) {
	engine := NewDefaultEngine()
	mapping := merge.FieldMapping{"[Favorite Color]": merge.Unmapped}

	result := engine.Substitute("Your color: [Favorite Color]", testRecord(), mapping, testCategories())

	assert.Equal(t, "Your color: [UNMAPPED: Favorite Color]", result.Message)
	require.Len(t, result.Tokens, 1)
	assert.Equal(t, merge.OutcomeUnmapped, result.Tokens[0].Outcome)
}

func TestSubstitute_MissingValue(t *testing.T) {
	engine := NewDefaultEngine()
	record := tabular.Record{"Customer Name": ""}
	mapping := merge.FieldMapping{"[Customer Name]": "Customer Name"}

	result := engine.Substitute("Dear [Customer Name]", record, mapping, testCategories())

	assert.Equal(t, "Dear [MISSING: Customer Name]", result.Message)
	require.Len(t, result.Tokens, 1)
	assert.Equal(t, merge.OutcomeMissing, result.Tokens[0].Outcome)
}

func TestSubstitute_AllOccurrencesReplaced(t *testing.T) {
	engine := NewDefaultEngine()

	result := engine.Substitute(
		"[Customer Name], yes you, [Customer Name]!",
		testRecord(), testMapping(), testCategories())

	assert.Equal(t, "John McDonald, yes you, John McDonald!", result.Message)
	// One unique token, one log entry.
	assert.Len(t, result.Tokens, 1)
}

func TestSubstitute_LiteralTokenEscaping(t *testing.T) {
	engine := NewDefaultEngine()
	// Regex metacharacters inside the token must be treated literally.
	record := tabular.Record{"Amount": "100"}
	mapping := merge.FieldMapping{"[Amount ($)]": "Amount"}
	cats := merge.CategorySet{
		Tokens:  map[string]merge.SemanticCategory{"[Amount ($)]": merge.CategoryGeneric},
		Headers: map[string]merge.SemanticCategory{"Amount": merge.CategoryGeneric},
	}

	result := engine.Substitute("Total: [Amount ($)]", record, mapping, cats)
	assert.Equal(t, "Total: 100", result.Message)
}

func TestSubstitute_CategoryResolution(t *testing.T) {
	engine := NewDefaultEngine()

	// Generic token mapped to a date-classified column formats as a date.
	record := tabular.Record{"Expiration_Date": "45000"}
	mapping := merge.FieldMapping{"[Policy Info]": "Expiration_Date"}
	cats := merge.CategorySet{
		Tokens:  map[string]merge.SemanticCategory{"[Policy Info]": merge.CategoryGeneric},
		Headers: map[string]merge.SemanticCategory{"Expiration_Date": merge.CategoryDate},
	}

	result := engine.Substitute("[Policy Info]", record, mapping, cats)
	assert.Equal(t, "March 15, 2023", result.Message)
}

func TestResolveContacts(t *testing.T) {
	engine := NewDefaultEngine()

	contacts := engine.ResolveContacts(testRecord(), "Email", "Mobile")
	assert.Equal(t, "john.mcdonald@example.com", contacts.Email)
	assert.Equal(t, "(772) 555-1234", contacts.Phone)

	// Empty selections resolve nothing.
	assert.Equal(t, merge.ContactInfo{}, engine.ResolveContacts(testRecord(), "", ""))

	// Case-insensitive column selection goes through the lookup chain.
	contacts = engine.ResolveContacts(testRecord(), "email", "")
	assert.Equal(t, "john.mcdonald@example.com", contacts.Email)
}
