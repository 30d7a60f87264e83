// Package cli wires the itemdesk front ends, the reference backend and the
// scripting commands into one Cobra command tree.
package cli

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erazemk/itemdesk/internal/client"
	"github.com/erazemk/itemdesk/internal/state"
)

// App holds the persistent flags shared by every subcommand.
type App struct {
	APIURL  string
	LogPath string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "itemdesk",
		Short:        "Browse and edit items served by a REST backend",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Single-page terminal UI (default)
  itemdesk

  # Routed web UI
  itemdesk web --addr :8080

  # Local reference backend, then point the UIs at it
  itemdesk api --db items.sqlite3 --prefix /test
  itemdesk --api http://localhost:8081/test

  # Scriptable commands
  itemdesk items list
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api", envOr("ITEMDESK_API", client.DefaultBaseURL), "Base URL of the items API")
	cmd.PersistentFlags().StringVar(&app.LogPath, "log", envOr("ITEMDESK_LOG", ""), "Also write logs to this file")

	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newAPICmd(app))
	cmd.AddCommand(newItemsCmd(app))

	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// controller builds the API client and an empty item store around it.
// Requests carry no client-side timeout; callers cancel through contexts.
func (app *App) controller() (*state.Controller, *client.Client, error) {
	c, err := client.New(app.APIURL, &http.Client{})
	if err != nil {
		return nil, nil, err
	}
	return state.NewController(c, state.NewStore(), slog.Default()), c, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
