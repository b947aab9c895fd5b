package cli

import (
	"github.com/spf13/cobra"

	"quizhub-service/internal/app"
	"quizhub-service/internal/config"
	"quizhub-service/internal/logger"
)

// NewUserCmd groups account maintenance commands.
func NewUserCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserCreateCmd(configPath))
	return cmd
}

func newUserCreateCmd(configPath *string) *cobra.Command {
	var (
		username string
		password string
		admin    bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user, optionally with admin rights",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := logger.New(serviceName, cfg.Log.Level)

			be, err := openBackend(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer be.Close()

			// Creating accounts never issues tokens.
			service := app.NewAuthService(be.users, nil, app.AuthOptions{BcryptCost: cfg.Auth.BcryptCost}, log)
			user, err := service.CreateUser(cmd.Context(), username, password, admin)
			if err != nil {
				return err
			}
			cmd.Printf("created user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account name")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant admin rights")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
