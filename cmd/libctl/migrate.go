package main

import (
	"github.com/spf13/cobra"

	"github.com/Astemirdum/library-borrow/library/migrations"
	"github.com/Astemirdum/library-borrow/pkg/postgres"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect schema migrations",
	}
	run := func(fn func(*cobra.Command) error) func(*cobra.Command, []string) error {
		return func(c *cobra.Command, _ []string) error { return fn(c) }
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: run(func(c *cobra.Command) error {
				pool, err := openPool(c.Context())
				if err != nil {
					return err
				}
				defer pool.Close()
				return postgres.MigrateUp(pool, migrations.MigrationFiles)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: run(func(c *cobra.Command) error {
				pool, err := openPool(c.Context())
				if err != nil {
					return err
				}
				defer pool.Close()
				return postgres.MigrateDown(pool, migrations.MigrationFiles)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print applied and pending migrations",
			RunE: run(func(c *cobra.Command) error {
				pool, err := openPool(c.Context())
				if err != nil {
					return err
				}
				defer pool.Close()
				return postgres.MigrateStatus(pool, migrations.MigrationFiles)
			}),
		},
	)
	return cmd
}
