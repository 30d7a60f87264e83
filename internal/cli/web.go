package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/erazemk/itemdesk/internal/api"
	"github.com/erazemk/itemdesk/internal/web"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the routed web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogger(cmd.OutOrStdout(), cmd.ErrOrStderr(), app.LogPath)
			if err != nil {
				return err
			}
			defer closeLog()

			ctrl, c, err := app.controller()
			if err != nil {
				return err
			}
			router, err := web.NewRouter(ctrl)
			if err != nil {
				return err
			}

			slog.Info("using items API", "url", c.BaseURL())
			return listenAndServe(cmd.Context(), addr, api.LoggingMiddleware(router))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
