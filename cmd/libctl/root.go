package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Astemirdum/library-borrow/library/app"
	"github.com/Astemirdum/library-borrow/pkg/logger"
	"github.com/Astemirdum/library-borrow/pkg/postgres"
)

// ctlConfig is the subset of the server config libctl needs.
type ctlConfig struct {
	Database postgres.DB
	Log      logger.Log
}

func loadConfig() (ctlConfig, error) {
	var cfg ctlConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return ctlConfig{}, errors.Wrap(err, "envconfig")
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "libctl",
		Short:         "Maintenance commands for the library borrow service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMigrateCmd(), newUserCmd(), newLedgerCmd())
	return root
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return postgres.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
}

func openMaintenance(ctx context.Context) (*app.Maintenance, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.OpenMaintenance(ctx, cfg.Database, logger.NewLogger(cfg.Log, "libctl"))
}
