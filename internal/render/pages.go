package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alnah/go-b64pdf/internal/assets"
)

// DefaultTitle labels pages when no title is supplied.
const DefaultTitle = "Document"

// PageData is the input of both pages.
type PageData struct {
	Title       string
	Description string // Markdown
	URL         string // handle URL, viewer only
	MIMEType    string // viewer only
}

// placeholderView and viewerView are what the templates see.
type placeholderView struct {
	Title       string
	Description template.HTML
	CSS         template.CSS
}

type viewerView struct {
	Title    string
	URL      string
	MIMEType string
	CSS      template.CSS
}

// Pages renders the placeholder and viewer pages from loaded assets.
// Safe for concurrent use once built.
type Pages struct {
	placeholder *template.Template
	viewer      *template.Template
	css         template.CSS
	md          *Markdown
}

// NewPages parses the templates and stylesheet served by loader.
func NewPages(loader assets.Loader, md *Markdown) (*Pages, error) {
	if md == nil {
		md = NewMarkdown()
	}

	placeholder, err := parse(loader, assets.TemplatePlaceholder)
	if err != nil {
		return nil, err
	}
	viewer, err := parse(loader, assets.TemplateViewer)
	if err != nil {
		return nil, err
	}

	style, err := loader.Load(assets.Style, assets.StylePreview)
	if err != nil {
		return nil, err
	}
	highlight, err := HighlightCSS()
	if err != nil {
		return nil, err
	}

	return &Pages{
		placeholder: placeholder,
		viewer:      viewer,
		// #nosec G203 -- stylesheets come from embedded or operator-supplied assets
		css: template.CSS(style + "\n" + highlight),
		md:  md,
	}, nil
}

func parse(loader assets.Loader, name string) (*template.Template, error) {
	src, err := loader.Load(assets.Template, name)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(name).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing template %q: %w", name, err)
	}
	return tmpl, nil
}

// Placeholder renders the loading page.
func (p *Pages) Placeholder(data PageData) (string, error) {
	desc, err := p.md.Render(data.Description)
	if err != nil {
		return "", err
	}
	return execute(p.placeholder, placeholderView{
		Title:       titleOrDefault(data.Title),
		Description: desc,
		CSS:         p.css,
	})
}

// Viewer renders the full-bleed embedded viewer for data.URL.
func (p *Pages) Viewer(data PageData) (string, error) {
	if data.URL == "" {
		return "", fmt.Errorf("viewer page: empty handle URL")
	}
	return execute(p.viewer, viewerView{
		Title:    titleOrDefault(data.Title),
		URL:      data.URL,
		MIMEType: data.MIMEType,
		CSS:      p.css,
	})
}

func execute(tmpl *template.Template, view any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("executing template %q: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func titleOrDefault(title string) string {
	if title == "" {
		return DefaultTitle
	}
	return title
}
