package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go-inventory-crm/internal/config"
	"go-inventory-crm/internal/logger"
	"go-inventory-crm/internal/repository"
	"go-inventory-crm/internal/service"
	"go-inventory-crm/pkg/database"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var username, newPassword string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset an administrator password",
		Long: `Reset the password of an administrator account.

Missing default accounts are created first. When --password is omitted the
configured admin.default_password is used.

Examples:
  reset-password                          # boss1 back to the default password
  reset-password -u boss2 -p s3cret-pass  # explicit account and password`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), username, newPassword)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "boss1", "account to reset")
	cmd.Flags().StringVarP(&newPassword, "password", "p", "", "new password (defaults to admin.default_password)")
	return cmd
}

func run(ctx context.Context, out io.Writer, username, newPassword string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init("debug", cfg.Log.ToLoggerOptions())
	defer logger.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()
	if err := database.Migrate(db); err != nil {
		return err
	}

	auth := service.NewAuthService(repository.NewAdminUserRepo(db), nil, cfg.Admin.DefaultPassword)
	if err := auth.EnsureDefaultAccounts(ctx); err != nil {
		return fmt.Errorf("seed default accounts: %w", err)
	}

	if newPassword == "" {
		newPassword = cfg.Admin.DefaultPassword
	}
	if err := auth.ResetPassword(ctx, username, newPassword); err != nil {
		return fmt.Errorf("reset password for %s: %w", username, err)
	}

	fmt.Fprintf(out, "password for %s has been reset\n", username)
	return nil
}
