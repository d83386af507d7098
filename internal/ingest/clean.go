package ingest

import (
	"html"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlBodyRE = regexp.MustCompile(`(?i)<(html|body|div|p|br|span|table|a)\b`)
	strict     = bluemonday.StrictPolicy()
)

// CleanText reduces an HTML or markdown body to plain single-line text.
func CleanText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if htmlBodyRE.MatchString(text) {
		if plain, err := html2text.FromString(text, html2text.Options{OmitLinks: true}); err == nil {
			text = plain
		}
	}

	return strings.Join(strings.Fields(stripMarkdown(text)), " ")
}

func stripMarkdown(text string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.FlagsNone})
	rendered := markdown.Render(p.Parse([]byte(text)), renderer)

	return html.UnescapeString(string(strict.SanitizeBytes(rendered)))
}
