package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xelth-com/eckwms-mondialrelay/internal/app"
	"github.com/xelth-com/eckwms-mondialrelay/internal/config"
	"github.com/xelth-com/eckwms-mondialrelay/internal/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mrctl",
		Short:         "Send Mondial Relay shipments from the command line",
		Long:          "mrctl sends pickings through their carrier, processes the pending queue and manages carrier settings, using the same database as the API server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSendCmd())
	cmd.AddCommand(newQueueCmd())
	cmd.AddCommand(newProcessCmd())
	cmd.AddCommand(newLabelsCmd())
	cmd.AddCommand(newPickupCmd())
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newUserCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

// withApp loads configuration, builds the application and closes it after run
func withApp(run func(a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log, "mrctl")
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := app.Build(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("Failed to close application", zap.Error(err))
		}
	}()
	return run(a)
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid picking id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
