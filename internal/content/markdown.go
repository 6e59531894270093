package content

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter turns markdown into HTML.
type Converter interface {
	Convert(source []byte) (html string, title string, err error)
}

// MarkdownConverter is the goldmark based Converter.
type MarkdownConverter struct {
	md goldmark.Markdown
}

// NewMarkdownConverter returns a converter with GFM, heading ids, code
// highlighting and raw HTML passthrough enabled.
func NewMarkdownConverter() *MarkdownConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &MarkdownConverter{md: md}
}

// frontMatter holds the front matter keys the site cares about.
type frontMatter struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

// Convert strips an optional front matter block and renders the rest.
// Unparseable front matter is treated as part of the document.
func (c *MarkdownConverter) Convert(source []byte) (string, string, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &fm)
	if err != nil {
		body = source
		fm = frontMatter{}
	}

	var buf bytes.Buffer
	if err := c.md.Convert(body, &buf); err != nil {
		return "", "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), fm.Title, nil
}
