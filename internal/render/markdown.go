// Package render builds the HTML pages shown while a document is prepared and
// once it is ready.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrMarkdown indicates a description could not be rendered.
var ErrMarkdown = errors.New("markdown rendering failed")

// highlightStyle is the chroma style used for fenced code in descriptions.
const highlightStyle = "github"

// Markdown renders short Markdown descriptions to HTML fragments.
// Raw HTML in the source is escaped: descriptions may come from user catalogs.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a Markdown renderer with GFM, class-based highlighting,
// and $...$ / $$...$$ math emitted as MathML for the browser to typeset.
func NewMarkdown() *Markdown {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			treeblood.MathML(),
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &Markdown{md: md}
}

// Render converts src to an HTML fragment. Empty input yields an empty fragment.
func (m *Markdown) Render(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdown, err)
	}
	// #nosec G203 -- goldmark escapes raw HTML without WithUnsafe
	return template.HTML(buf.String()), nil
}

// HighlightCSS returns the stylesheet for the classes emitted by Render.
func HighlightCSS() (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}
