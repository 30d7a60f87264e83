package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/erazemk/itemdesk/internal/form"
	"github.com/erazemk/itemdesk/internal/model"
	"github.com/erazemk/itemdesk/internal/state"
	webembed "github.com/erazemk/itemdesk/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"statuses": func() []model.Status { return model.Statuses },
		"statusName": func(s model.Status) string { return s.Label() },
		// position is the 1-based index shown next to each item.
		"position": func(i int) int { return i + 1 },
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}
	formBytes, err := fs.ReadFile(tfs, "form.html")
	if err != nil {
		return nil, fmt.Errorf("reading form template: %w", err)
	}

	pages := []string{
		"items.html",
		"item_detail.html",
		"error.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		for _, src := range [][]byte{layoutBytes, formBytes, pageBytes} {
			if tmpl, err = tmpl.Parse(string(src)); err != nil {
				return nil, fmt.Errorf("parsing template %s: %w", page, err)
			}
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data and status code.
func (ts *Templates) Render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Error   string
	Success string
}

// FormView is what form.html needs to render a form. Only create forms mark
// their fields required.
type FormView struct {
	Action   string
	Label    string
	Required bool
	Draft    model.Draft
}

func newFormView(action string, f *form.Form) FormView {
	return FormView{
		Action:   action,
		Label:    f.ButtonLabel(),
		Required: f.Mode() == form.ModeCreate,
		Draft:    f.Draft(),
	}
}

// Server holds all dependencies for page handlers.
type Server struct {
	Items     *state.Controller
	Templates *Templates
}
