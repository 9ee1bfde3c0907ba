package markup

import (
	"log"
	"regexp"
	"strings"

	"mailmerge/domain/core"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Template is a loaded message template. Raw is the markup as received from
// the document converter; Plain is the visible text the extractor and the
// substitution engine operate on.
type Template struct {
	Raw   string `json:"raw"`
	Plain string `json:"plain"`
}

// Load normalizes template bytes into visible text. Markdown formats are
// rendered to HTML first so a single tag-stripping pass covers both authored
// markdown and converter output.
func Load(raw []byte, format string) (*Template, error) {
	text := string(raw)

	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "md", "markdown":
		text = renderMarkdown(raw)
	case "html", "htm", "txt", "":
		// already markup or plain text
	default:
		return nil, core.NewValidationError("template format", "expected md, html, or txt")
	}

	plain := StripTags(text)
	if strings.TrimSpace(plain) == "" {
		return nil, core.ErrEmptyTemplate
	}

	log.Printf("[Markup] Loaded template (%d raw bytes, %d visible chars)", len(raw), len(plain))
	return &Template{Raw: string(raw), Plain: plain}, nil
}

func renderMarkdown(raw []byte) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML(raw, p, renderer))
}

var (
	blockTagPattern = regexp.MustCompile(`(?i)<(?:/p|/div|/li|/tr|/h[1-6]|br\s*/?)>`)
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	spaceRuns       = regexp.MustCompile(`[ \t]+`)
	blankRuns       = regexp.MustCompile(`\n{3,}`)
)

// entityReplacer decodes the entities that commonly survive document
// conversion. Bracket characters are never entity-encoded by the upstream
// converter, so placeholder tokens stay intact.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// StripTags replaces markup tags with whitespace so matching runs over
// visible text only. Closing block tags become newlines to keep the message
// shape; everything else becomes a single space.
func StripTags(markupText string) string {
	text := blockTagPattern.ReplaceAllString(markupText, "\n")
	text = tagPattern.ReplaceAllString(text, " ")
	text = entityReplacer.Replace(text)

	text = spaceRuns.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
