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
	var seed bool

	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Create or update the database schema",
		Long: `Create every table and index of the inventory CRM schema.

Running it again is safe: existing tables are only extended.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), seed)
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", true, "create the default administrator accounts")
	return cmd
}

func run(ctx context.Context, out io.Writer, seed bool) error {
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
	fmt.Fprintf(out, "schema ready (%s)\n", database.DriverName(db))

	if !seed {
		return nil
	}
	auth := service.NewAuthService(repository.NewAdminUserRepo(db), nil, cfg.Admin.DefaultPassword)
	if err := auth.EnsureDefaultAccounts(ctx); err != nil {
		return fmt.Errorf("seed default accounts: %w", err)
	}
	fmt.Fprintln(out, "default accounts ready")
	return nil
}
