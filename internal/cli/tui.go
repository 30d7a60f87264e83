package cli

import (
	"github.com/spf13/cobra"

	"github.com/erazemk/itemdesk/internal/tui"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the single-page terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}
}

func runTUI(app *App) error {
	closeLog, err := setupFileLogger(app.LogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	ctrl, _, err := app.controller()
	if err != nil {
		return err
	}
	return tui.Run(ctrl)
}
