package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/xelth-com/eckwms-mondialrelay/internal/app"
	"github.com/xelth-com/eckwms-mondialrelay/internal/delivery"
	"github.com/xelth-com/eckwms-mondialrelay/internal/delivery/mondialrelay"
)

func newSendCmd() *cobra.Command {
	var (
		carrierID int64
		employee  string
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "send <picking-id> [picking-id] ...",
		Short: "Send pickings through a carrier now",
		Long:  "Create carrier shipments for the pickings in one batch. Per-shipment problems are listed; the command fails only when nothing could be attempted.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			employeeID, err := parseEmployee(employee)
			if err != nil {
				return err
			}
			return withApp(func(a *app.App) error {
				ctx := cmd.Context()
				if employeeID != "" {
					ctx = mondialrelay.WithEmployee(ctx, employeeID)
				}
				result, err := a.Shipping.SendShipments(ctx, carrierID, ids)
				if err != nil {
					return fmt.Errorf("send failed: %w", err)
				}
				if jsonOut {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(result)
				}
				printBatch(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&carrierID, "carrier", 0, "carrier id")
	cmd.Flags().StringVar(&employee, "employee", "", "user id recorded as sender")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("carrier")
	return cmd
}

// parseEmployee checks that the sender is a user id; empty means unattended
func parseEmployee(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return "", fmt.Errorf("invalid employee %q: must be a user id (UUID)", value)
	}
	return id.String(), nil
}

func printBatch(w io.Writer, result *delivery.BatchResult) {
	fmt.Fprintf(w, "Batch %s\n", result.BatchID)
	fmt.Fprintln(w, color.New(color.FgGreen).Sprintf("Sent: %d", len(result.References)))
	for _, ref := range result.References {
		fmt.Fprintf(w, "  %s\n", ref)
	}
	fmt.Fprintf(w, "Labels: %d\n", len(result.Labels))
	for _, path := range result.Labels {
		fmt.Fprintf(w, "  %s\n", path)
	}
	if !result.OK() {
		fmt.Fprintln(w, color.New(color.FgRed).Sprintf("Errors: %d", len(result.Errors)))
		for _, msg := range result.Errors {
			fmt.Fprintf(w, "  %s\n", msg)
		}
	}
}
