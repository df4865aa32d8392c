package b64pdf

import (
	"sync"

	"github.com/alnah/go-b64pdf/internal/assets"
	"github.com/alnah/go-b64pdf/internal/render"
)

// PageInfo labels the pages shown while a document is prepared and viewed.
type PageInfo struct {
	Title       string
	Description string // Markdown
}

// pageBuilder renders the proxy-tab pages.
type pageBuilder interface {
	Placeholder(info PageInfo) (string, error)
	Viewer(url string, info PageInfo) (string, error)
}

// renderPages adapts render.Pages to pageBuilder.
type renderPages struct {
	pages *render.Pages
}

// Compile-time interface check.
var _ pageBuilder = renderPages{}

func (p renderPages) Placeholder(info PageInfo) (string, error) {
	return p.pages.Placeholder(render.PageData{Title: info.Title, Description: info.Description})
}

func (p renderPages) Viewer(url string, info PageInfo) (string, error) {
	return p.pages.Viewer(render.PageData{Title: info.Title, URL: url, MIMEType: MIMETypePDF})
}

// newPages builds pages from the embedded assets, or from basePath with
// embedded fallback when basePath is set.
func newPages(basePath string) (pageBuilder, error) {
	resolver, err := assets.NewResolver(basePath)
	if err != nil {
		return nil, err
	}
	pages, err := render.NewPages(resolver, render.NewMarkdown())
	if err != nil {
		return nil, err
	}
	return renderPages{pages: pages}, nil
}

// defaultPages parses the embedded assets once per process.
var defaultPages = sync.OnceValues(func() (pageBuilder, error) {
	return newPages("")
})
