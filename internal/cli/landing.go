package cli

import (
	"github.com/spf13/cobra"
)

func newLandingCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "landing",
		Short: "Show the landing page content",
		Long: `Show the landing page title, subtitle, introduction, links and featured
workflows as configured for this Galaxy site.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app.Printer.Landing(app.Config.Landing, app.Catalog)
		},
	}
}
