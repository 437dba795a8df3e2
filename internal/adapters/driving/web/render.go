package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"new", "browse", "note", "edit", "search", "copilot", "tasks"}

var funcs = template.FuncMap{
	"stamp": func(t time.Time) string { return t.Format(domain.TimeLayout) },
	"score": func(f float64) string { return fmt.Sprintf("%.3f", f) },
	"noteURL": func(path string) string {
		return "/note?path=" + url.QueryEscape(path)
	},
	"editURL": func(path string) string {
		return "/note/edit?path=" + url.QueryEscape(path)
	},
}

// page is the data every template receives.
type page struct {
	Title string
	Flash string
	Data  any
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// render writes the named page, consuming any pending flash message.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	t, ok := s.pages[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}

	p := page{Title: title, Flash: popFlash(w, r), Data: data}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", p); err != nil {
		logger.Warn("Rendering %s failed: %v", name, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// serverError logs err and answers with a plain 500.
func serverError(w http.ResponseWriter, err error) {
	logger.Warn("Request failed: %v", err)
	http.Error(w, "Something went wrong: "+err.Error(), http.StatusInternalServerError)
}
