package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xelth-com/eckwms-mondialrelay/internal/app"
)

func newQueueCmd() *cobra.Command {
	var carrierID int64

	cmd := &cobra.Command{
		Use:   "queue <picking-id> [picking-id] ...",
		Short: "Queue pickings for the dispatch worker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withApp(func(a *app.App) error {
				if err := a.Shipping.QueueShipments(cmd.Context(), carrierID, ids); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued %d picking(s)\n", len(ids))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&carrierID, "carrier", 0, "carrier id")
	_ = cmd.MarkFlagRequired("carrier")
	return cmd
}

func newProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Send all pending pickings once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				return a.Shipping.ProcessPendingShipments(cmd.Context())
			})
		},
	}
}
