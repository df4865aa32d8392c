package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-b64pdf/internal/assets"
)

func TestMarkdown_Render(t *testing.T) {
	t.Parallel()

	md := NewMarkdown()

	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "empty",
			input:    "  \n",
			contains: nil,
		},
		{
			name:     "emphasis",
			input:    "A **portrait** page",
			contains: []string{"<strong>portrait</strong>"},
		},
		{
			name:     "GFM strikethrough",
			input:    "~~old~~",
			contains: []string{"<del>old</del>"},
		},
		{
			name:     "fenced code is highlighted with classes",
			input:    "```go\nfunc main() {}\n```",
			contains: []string{`class="chroma"`},
			excludes: []string{"style="},
		},
		{
			name:     "display math becomes MathML",
			input:    "$$x^2$$",
			contains: []string{"<math"},
		},
		{
			name:     "raw HTML is not passed through",
			input:    "<script>alert(1)</script>",
			excludes: []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := md.Render(tt.input)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if len(tt.contains) == 0 && len(tt.excludes) == 0 && got != "" {
				t.Errorf("Render() = %q, want empty", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(string(got), want) {
					t.Errorf("Render() = %q, want it to contain %q", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(string(got), bad) {
					t.Errorf("Render() = %q, must not contain %q", got, bad)
				}
			}
		})
	}
}

func TestHighlightCSS(t *testing.T) {
	t.Parallel()

	css, err := HighlightCSS()
	if err != nil {
		t.Fatalf("HighlightCSS() error = %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Error("HighlightCSS() should style the .chroma class")
	}
}

func newTestPages(t *testing.T) *Pages {
	t.Helper()
	pages, err := NewPages(assets.Embedded(), nil)
	if err != nil {
		t.Fatalf("NewPages() error = %v", err)
	}
	return pages
}

func TestPages_Placeholder(t *testing.T) {
	t.Parallel()

	pages := newTestPages(t)

	t.Run("title and description", func(t *testing.T) {
		t.Parallel()

		html, err := pages.Placeholder(PageData{Title: "Invoice", Description: "Monthly *invoice*"})
		if err != nil {
			t.Fatalf("Placeholder() error = %v", err)
		}
		for _, want := range []string{"<title>Invoice</title>", "<em>invoice</em>", "spinner"} {
			if !strings.Contains(html, want) {
				t.Errorf("Placeholder() missing %q", want)
			}
		}
	})

	t.Run("default title", func(t *testing.T) {
		t.Parallel()

		html, err := pages.Placeholder(PageData{})
		if err != nil {
			t.Fatalf("Placeholder() error = %v", err)
		}
		if !strings.Contains(html, "<title>"+DefaultTitle+"</title>") {
			t.Error("Placeholder() should fall back to the default title")
		}
		if strings.Contains(html, `class="description"`) {
			t.Error("Placeholder() should omit an empty description block")
		}
	})

	t.Run("title is escaped", func(t *testing.T) {
		t.Parallel()

		html, err := pages.Placeholder(PageData{Title: "<b>x</b>"})
		if err != nil {
			t.Fatalf("Placeholder() error = %v", err)
		}
		if strings.Contains(html, "<b>x</b>") {
			t.Error("Placeholder() must escape the title")
		}
	})
}

func TestPages_Viewer(t *testing.T) {
	t.Parallel()

	pages := newTestPages(t)

	t.Run("embeds handle", func(t *testing.T) {
		t.Parallel()

		url := "http://127.0.0.1:4242/h/0d7c5a2e-1b7e-4a8a-9f0e-3c2d1b0a9f8e"
		html, err := pages.Viewer(PageData{URL: url, MIMEType: "application/pdf"})
		if err != nil {
			t.Fatalf("Viewer() error = %v", err)
		}
		if !strings.Contains(html, `<embed class="viewer" src="`+url+`" type="application/pdf">`) {
			t.Errorf("Viewer() = %s, want embed of the handle", html)
		}
		if !strings.Contains(html, `href="`+url+`"`) {
			t.Error("Viewer() should link to the handle as a fallback")
		}
	})

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()

		if _, err := pages.Viewer(PageData{}); err == nil {
			t.Error("Viewer() should reject an empty URL")
		}
	})

	t.Run("javascript URL is neutralized", func(t *testing.T) {
		t.Parallel()

		html, err := pages.Viewer(PageData{URL: "javascript:alert(1)", MIMEType: "application/pdf"})
		if err != nil {
			t.Fatalf("Viewer() error = %v", err)
		}
		if strings.Contains(html, "javascript:alert") {
			t.Error("Viewer() must not emit a javascript: URL")
		}
	})
}

type brokenLoader struct{}

func (brokenLoader) Load(kind assets.Kind, name string) (string, error) {
	if kind == assets.Style {
		return "", assets.ErrStyleNotFound
	}
	if name == assets.TemplateViewer {
		return "{{.Missing", nil
	}
	return "<p>{{.Title}}</p>", nil
}

func TestNewPages_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewPages(brokenLoader{}, nil)
	if err == nil || !strings.Contains(err.Error(), "viewer") {
		t.Errorf("NewPages() error = %v, want template parse error for viewer", err)
	}
	if errors.Is(err, assets.ErrStyleNotFound) {
		t.Error("template errors should be reported before style errors")
	}
}
