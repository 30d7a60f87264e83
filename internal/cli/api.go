package cli

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erazemk/itemdesk/internal/api"
	"github.com/erazemk/itemdesk/internal/db"
)

func newAPICmd(app *App) *cobra.Command {
	var (
		dbPath string
		addr   string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Serve the reference items backend from SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogger(cmd.OutOrStdout(), cmd.ErrOrStderr(), app.LogPath)
			if err != nil {
				return err
			}
			defer closeLog()

			database, err := db.Open(dbPath)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.Migrate(database); err != nil {
				return err
			}
			slog.Info("database ready", "path", dbPath)

			return listenAndServe(cmd.Context(), addr, api.LoggingMiddleware(backendHandler(api.NewRouter(database), prefix)))
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "itemdesk.sqlite3", "SQLite database path")
	cmd.Flags().StringVar(&addr, "addr", ":8081", "Listen address")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Path prefix to serve the API under, e.g. /test")
	return cmd
}

// backendHandler mounts router under prefix.
func backendHandler(router http.Handler, prefix string) http.Handler {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return router
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	mux := http.NewServeMux()
	mux.Handle(prefix+"/", http.StripPrefix(prefix, router))
	return mux
}
