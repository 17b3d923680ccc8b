package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	pgRepo "github.com/loanlens/assessment/internal/infrastructure/persistence/postgres"
	pkgpostgres "github.com/loanlens/assessment/pkg/postgres"
)

func newMigrateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the assessment database schema",
	}
	cmd.PersistentFlags().String("dsn", "", "PostgreSQL connection string")
	_ = c.v.BindPFlag("dsn", cmd.PersistentFlags().Lookup("dsn"))

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.runMigrate(cmd, "up", pkgpostgres.RunMigrations)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration, dropping the schema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.runMigrate(cmd, "down", pkgpostgres.RunMigrationsDown)
			},
		},
	)
	return cmd
}

type migrateFunc func(dsn string, fsys fs.FS, dir string) error

func (c *cli) runMigrate(cmd *cobra.Command, direction string, run migrateFunc) error {
	dsn := c.v.GetString("dsn")
	if dsn == "" {
		return errors.New("--dsn (or ASSESSCTL_DSN) is required")
	}
	if err := run(dsn, pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	c.logger(cmd).Info("migrations applied", "direction", direction)
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", direction)
	return err
}
