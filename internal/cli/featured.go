package cli

import (
	"github.com/spf13/cobra"
)

func newFeaturedCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "featured",
		Short: "List the featured workflows",
		Long: `List the featured workflows configured for this Galaxy site.

Each key can be passed to "galaxy-launch launch" in place of a workflow id.
Entries come from the config file's featured list followed by the file named
by catalog_path, if any.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app.Printer.Featured(app.Catalog)
		},
	}
}
