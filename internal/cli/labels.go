package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xelth-com/eckwms-mondialrelay/internal/app"
)

func newLabelsCmd() *cobra.Command {
	var carrierID int64

	cmd := &cobra.Command{
		Use:   "labels <picking-id> [picking-id] ...",
		Short: "Fetch labels of pickings already sent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withApp(func(a *app.App) error {
				labels, err := a.Shipping.PrintLabels(cmd.Context(), carrierID, ids)
				if err != nil {
					return err
				}
				if len(labels) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No labels available")
					return nil
				}
				for _, path := range labels {
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&carrierID, "carrier", 0, "carrier id")
	_ = cmd.MarkFlagRequired("carrier")
	return cmd
}
