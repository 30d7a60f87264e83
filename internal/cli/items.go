package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erazemk/itemdesk/internal/client"
	"github.com/erazemk/itemdesk/internal/model"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Scriptable item commands (JSON output)",
	}

	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsGetCmd(app))
	cmd.AddCommand(newItemsCreateCmd(app))
	cmd.AddCommand(newItemsUpdateCmd(app))
	cmd.AddCommand(newItemsDeleteCmd(app))

	for _, sub := range cmd.Commands() {
		sub.RunE = withItemsLogging(app, sub.RunE)
	}
	return cmd
}

// withItemsLogging installs the logger around run. Logs go to stderr, and to
// --log when set, so stdout stays valid JSON.
func withItemsLogging(app *App, run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		closeLog, err := setupLogger(cmd.ErrOrStderr(), cmd.ErrOrStderr(), app.LogPath)
		if err != nil {
			return err
		}
		defer closeLog()
		return run(cmd, args)
	}
}

func newItemsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Fetch every item with its details, in server order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := app.controller()
			if err != nil {
				return err
			}
			if err := ctrl.FetchItems(cmd.Context()); err != nil {
				return err
			}
			items := ctrl.Store().Snapshot().Items
			if items == nil {
				items = []model.Item{}
			}
			return writeJSON(cmd, items)
		},
	}
}

func newItemsGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, c, err := app.controller()
			if err != nil {
				return err
			}
			item, err := c.GetItem(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeJSON(cmd, item)
		},
	}
}

// draftFlags binds --title, --text and --status.
type draftFlags struct {
	title, text, status string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Item title")
	cmd.Flags().StringVar(&f.text, "text", "", "Item text")
	cmd.Flags().StringVar(&f.status, "status", "0", "Status: 0 new, 1 in progress, 2 done")
}

// apply overwrites the fields of d whose flags were set on cmd.
func (f *draftFlags) apply(cmd *cobra.Command, d *model.Draft) error {
	if cmd.Flags().Changed("title") {
		d.Title = f.title
	}
	if cmd.Flags().Changed("text") {
		d.Text = f.text
	}
	if cmd.Flags().Changed("status") {
		s, err := model.ParseStatus(f.status)
		if err != nil {
			return err
		}
		d.Status = s
	}
	return nil
}

func newItemsCreateCmd(app *App) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var d model.Draft
			if err := flags.apply(cmd, &d); err != nil {
				return err
			}
			if missing := d.Missing(); len(missing) > 0 {
				return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
			}

			_, c, err := app.controller()
			if err != nil {
				return err
			}
			item, err := c.CreateItem(cmd.Context(), d)
			if err != nil {
				return err
			}
			if item == nil {
				return writeJSON(cmd, map[string]string{"message": "item created"})
			}
			return writeJSON(cmd, item)
		},
	}

	flags.register(cmd)
	return cmd
}

func newItemsUpdateCmd(app *App) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an item; unset flags keep their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, c, err := app.controller()
			if err != nil {
				return err
			}

			current, err := c.GetItem(cmd.Context(), id)
			if err != nil {
				return err
			}
			if current == nil {
				return fmt.Errorf("item %d: empty response", id)
			}
			d := current.Draft()
			if err := flags.apply(cmd, &d); err != nil {
				return err
			}

			updated, err := c.UpdateItem(cmd.Context(), id, d.Apply(id))
			if err != nil {
				return err
			}
			return writeJSON(cmd, updated)
		},
	}

	flags.register(cmd)
	return cmd
}

func newItemsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, c, err := app.controller()
			if err != nil {
				return err
			}
			if err := c.DeleteItem(cmd.Context(), id); err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("item %d not found", id)
				}
				return err
			}
			return writeJSON(cmd, map[string]any{"message": "item deleted", "id": id})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return id, nil
}
