package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailmerge/domain/core"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			"tags become whitespace",
			`<p>Dear <b>[Name]</b>,</p><p>hello</p>`,
			"Dear [Name] ,\nhello",
		},
		{
			"brackets survive",
			`<span>[Expiration Date]</span>`,
			"[Expiration Date]",
		},
		{
			"entities decoded",
			`Fish &amp; Chips&nbsp;Ltd`,
			"Fish & Chips Ltd",
		},
		{
			"whitespace collapsed",
			"a    b\n\n\n\n\nc",
			"a b\n\nc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.markup))
		})
	}
}

func TestLoad_HTML(t *testing.T) {
	tpl, err := Load([]byte(`<p>Dear [Customer Name]</p>`), "html")
	require.NoError(t, err)
	assert.Contains(t, tpl.Plain, "[Customer Name]")
	assert.NotContains(t, tpl.Plain, "<p>")
}

func TestLoad_Markdown(t *testing.T) {
	tpl, err := Load([]byte("# Renewal notice\n\nDear [Customer Name], your plan renews on [Renewal Date]."), "md")
	require.NoError(t, err)
	assert.Contains(t, tpl.Plain, "[Customer Name]")
	assert.Contains(t, tpl.Plain, "[Renewal Date]")
	assert.False(t, strings.Contains(tpl.Plain, "#"), "markdown syntax should not survive: %q", tpl.Plain)
}

func TestLoad_EmptyTemplate(t *testing.T) {
	_, err := Load([]byte("<p>  </p>"), "html")
	assert.ErrorIs(t, err, core.ErrEmptyTemplate)
}

func TestLoad_UnknownFormat(t *testing.T) {
	_, err := Load([]byte("hello"), "docx")
	assert.Error(t, err)
}
