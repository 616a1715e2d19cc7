package main

import (
	"fmt"
	"strconv"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Database.Driver != "postgres" {
				// sqlite schemas are created when the database is opened
				if _, err := ctx.database(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", cfg.Database.Path)
				return nil
			}
			return withMigrator(ctx, cfg, func(m *migrations.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("steps must be a positive number, got %q", args[0])
				}
				steps = n
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := requirePostgres(cfg); err != nil {
				return err
			}
			return withMigrator(ctx, cfg, func(m *migrations.Migrator) error {
				if err := m.Steps(-steps); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := requirePostgres(cfg); err != nil {
				return err
			}
			return withMigrator(ctx, cfg, func(m *migrations.Migrator) error {
				return printVersion(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Mark a version as applied after a failed migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := requirePostgres(cfg); err != nil {
				return err
			}
			return withMigrator(ctx, cfg, func(m *migrations.Migrator) error {
				if err := m.Force(version); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	})

	return cmd
}

func requirePostgres(cfg *config.Config) error {
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("versioned migrations need the postgres driver, configured driver is %q", cfg.Database.Driver)
	}
	return nil
}

func withMigrator(ctx *commandContext, cfg *config.Config, fn func(*migrations.Migrator) error) error {
	db, err := migrations.Open(cfg.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := migrations.New(db, cfg.Database.Database, ctx.logger())
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func printVersion(cmd *cobra.Command, m *migrations.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema version %d (%s)\n", version, state)
	return nil
}
