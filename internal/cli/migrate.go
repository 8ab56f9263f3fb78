package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xelth-com/eckwms-mondialrelay/internal/app"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Build migrates on the way
			return withApp(func(a *app.App) error {
				fmt.Fprintln(cmd.OutOrStdout(), "Schema synchronized")
				return nil
			})
		},
	}
}
