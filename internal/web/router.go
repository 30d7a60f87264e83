// Package web serves the routed front end: a list page and a per-item detail
// page, both rendered on the server from the shared item state.
package web

import (
	"net/http"

	"github.com/erazemk/itemdesk/internal/state"
	webembed "github.com/erazemk/itemdesk/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(ctrl *state.Controller) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Items:     ctrl,
		Templates: templates,
	}

	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/items", http.StatusSeeOther)
	})

	mux.HandleFunc("GET /items", s.ItemsPage)
	mux.HandleFunc("POST /items", s.ItemCreateSubmit)
	mux.HandleFunc("GET /items/{id}", s.ItemDetailPage)
	mux.HandleFunc("POST /items/{id}", s.ItemUpdateSubmit)
	mux.HandleFunc("POST /items/{id}/delete", s.ItemDeleteSubmit)

	return mux, nil
}
