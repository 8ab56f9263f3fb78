package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xelth-com/eckwms-mondialrelay/internal/app"
	"github.com/xelth-com/eckwms-mondialrelay/internal/models"
	"github.com/xelth-com/eckwms-mondialrelay/internal/utils"
)

func newTokenCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an API access token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				var user models.UserAuth
				if err := a.DB.WithContext(cmd.Context()).Where("email = ?", email).First(&user).Error; err != nil {
					return fmt.Errorf("user %s not found: %w", email, err)
				}
				access, _, err := utils.GenerateTokens(&user, a.Config.JWTSecret)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), access)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
