package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/aussiebroadwan/portal/pkg/httpx"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page names. Each one is parsed on top of layout.html and overrides its
// title and content blocks.
const (
	pageLogin = "login"
	pageMain  = "main"
	pageAdmin = "admin"
	pageError = "error"
)

// Pages holds the parsed page templates.
type Pages struct {
	pages map[string]*template.Template
}

func NewPages() (*Pages, error) {
	base := template.New("layout.html")

	pages := map[string]*template.Template{}
	for _, page := range []string{pageLogin, pageMain, pageAdmin, pageError} {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templatesFS, "templates/layout.html", "templates/"+page+".html"); err != nil {
			return nil, fmt.Errorf("parse %s page: %w", page, err)
		}
		pages[page] = t
	}

	return &Pages{pages: pages}, nil
}

// Render executes page into a buffer and only then writes status and body,
// so a template failure can still become a clean 500.
func (p *Pages) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := p.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

type loginView struct {
	Errors        map[string]string
	LoginEmail    string
	RegisterEmail string
}

type mainView struct {
	Email   string
	IsAdmin bool
}

type adminView struct {
	Email string
}

type errorView struct {
	Status  int
	Title   string
	Message string
}
