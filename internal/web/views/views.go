// Package views renders the HTML pages of the web front-end
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names
const (
	PageChat       = "chat"
	PageTranscribe = "transcribe"
	PageList       = "transcripts"
	PageDetail     = "transcript"
	PageConfirm    = "confirm"
	PageNotFound   = "notfound"
)

// Options are the display options of the front-end
type Options struct {
	AutoFocusInput bool // Focus the chat input on load
	ShowEmptyState bool // Show an explicit message for empty lists
}

// Page is the data every page template receives
type Page struct {
	Title   string
	Active  string // Nav link to highlight
	Options Options
	Banner  string // Short-lived error banner
	Data    any    // Page specific data
}

// Renderer implements gin's HTMLRender with one template set per page, each
// sharing the layout
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded layout and page templates
func NewRenderer() (*Renderer, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	funcs := template.FuncMap{
		"markdown": markdownFunc(md),
		"inc": func(i int) int {
			return i + 1
		},
		"transcriptPath": func(id fmt.Stringer) string {
			return TranscriptPath(id.String())
		},
	}

	layout, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}

		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse page '%s': %w", file, err)
		}

		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}

	return r, nil
}

// Instance returns the render for a named page
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		log.Printf("[WEB]: Unknown page '%s', rendering not found page", name)
		t = r.pages[PageNotFound]
	}

	return render.HTML{
		Template: t,
		Name:     "layout",
		Data:     data,
	}
}

// TranscriptPath returns the detail path of a transcript. The id is escaped as
// a single path segment
func TranscriptPath(id string) string {
	return "/transcripts/" + url.PathEscape(id)
}

// Static returns the embedded stylesheet directory
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// markdownFunc converts answer text to HTML. Raw HTML in the source is not rendered
func markdownFunc(md goldmark.Markdown) func(string) template.HTML {
	return func(src string) template.HTML {
		var buf bytes.Buffer
		if err := md.Convert([]byte(src), &buf); err != nil {
			log.Printf("[WEB]: Failed to render markdown: %s", err)
			return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
		}
		return template.HTML(buf.String())
	}
}
