// Package api serves the items REST contract on top of SQLite. It is the
// reference backend used for local development and end-to-end tests.
package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router. Routes are relative to the mount point:
// callers that serve it under a prefix wrap it in http.StripPrefix.
func NewRouter(db *sql.DB) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: db}

	mux.HandleFunc("GET /{$}", itemsHandler.List)
	mux.HandleFunc("POST /{$}", itemsHandler.Create)
	mux.HandleFunc("GET /{id}", itemsHandler.Get)
	mux.HandleFunc("PUT /{id}", itemsHandler.Update)
	mux.HandleFunc("DELETE /{id}", itemsHandler.Delete)

	return mux
}
