package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/firstpriority/website/internal/model"
)

// pages lists every template that is rendered inside the shared layout.
var pages = []string{"home", "about", "services", "events", "contact", "hiring", "error"}

// pageData is the single view model passed to every template.
type pageData struct {
	Meta   model.PageMeta
	Active string
	Notice string
	Error  string
	Year   int

	Form           model.Submission
	Services       []model.Service
	UpcomingEvents []model.Event
	PastEvents     []model.Event
	Jobs           []model.Job
}

// Renderer executes page templates into the layout.
type Renderer struct {
	templates map[string]*template.Template
	now       func() time.Time
}

// NewRenderer parses layout.html together with each page template from fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages)), now: time.Now}
	for _, p := range pages {
		t, err := template.New(p).ParseFS(fsys, "layout.html", p+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", p, err)
		}
		r.templates[p] = t
	}
	return r, nil
}

// Render writes page with the given status. The page is executed into a
// buffer first so a template failure still yields a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data pageData) {
	t, ok := r.templates[page]
	if !ok {
		slog.Error("unknown template", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data.Active == "" {
		data.Active = page
	}
	data.Year = r.now().Year()

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("render failed", "page", page, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError shows the generic error page without any internal detail.
func (r *Renderer) renderError(w http.ResponseWriter, status int) {
	r.Render(w, status, "error", pageData{
		Meta:   model.PageMeta{Title: http.StatusText(status) + " | First Priority Logistics Company"},
		Active: "-",
		Error:  errorHeadline(status),
	})
}

func errorHeadline(status int) string {
	switch status {
	case http.StatusNotFound:
		return "We couldn't find that page."
	case http.StatusTooManyRequests:
		return "Too many submissions. Please wait a minute."
	case http.StatusRequestEntityTooLarge:
		return "That submission is too large."
	case http.StatusBadRequest:
		return "We couldn't read that submission."
	default:
		return "Something went wrong on our side."
	}
}
