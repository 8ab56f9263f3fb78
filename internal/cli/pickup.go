package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xelth-com/eckwms-mondialrelay/internal/app"
)

func newPickupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pickup <partner-id> <relay-point>",
		Short: "Set the relay point an address is delivered to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[:1])
			if err != nil {
				return err
			}
			return withApp(func(a *app.App) error {
				if a.MondialRelay == nil {
					return errors.New("mondialrelay sender is not configured")
				}
				if err := a.MondialRelay.SetPickupPoint(cmd.Context(), ids[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Partner %d delivered to %s\n", ids[0], args[1])
				return nil
			})
		},
	}
}
