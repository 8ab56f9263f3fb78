package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/xelth-com/eckwms-mondialrelay/internal/app"
	"github.com/xelth-com/eckwms-mondialrelay/internal/models"
	"github.com/xelth-com/eckwms-mondialrelay/internal/utils"
)

const minPasswordLength = 8

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage operator accounts",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var user models.UserAuth
	var password string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an operator account that can log in to the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateNewUser(&user, password); err != nil {
				return err
			}
			return withApp(func(a *app.App) error {
				created, err := addUser(cmd.Context(), a.DB.DB, user, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (%s)\n", created.Role, created.Email, created.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&user.Username, "username", "", "login name")
	cmd.Flags().StringVar(&user.Email, "email", "", "email used to log in")
	cmd.Flags().StringVar(&user.Name, "name", "", "display name")
	cmd.Flags().StringVar(&user.Role, "role", models.RoleOperator, "admin or operator")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func validateNewUser(user *models.UserAuth, password string) error {
	if !strings.Contains(user.Email, "@") {
		return fmt.Errorf("invalid email %q", user.Email)
	}
	if user.Role != models.RoleAdmin && user.Role != models.RoleOperator {
		return fmt.Errorf("invalid role %q: use %s or %s", user.Role, models.RoleAdmin, models.RoleOperator)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must have at least %d characters", minPasswordLength)
	}
	return nil
}

// addUser stores an active account with a bcrypt password hash
func addUser(ctx context.Context, db *gorm.DB, user models.UserAuth, password string) (*models.UserAuth, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.ID = ""
	user.Password = hash
	user.IsActive = true
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return &user, nil
}
