package main

import (
	"exportflow/internal/adapters/out/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCmd(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			if err := postgres.Migrate(db); err != nil {
				return err
			}
			c.Println("schema is up to date")
			return nil
		},
	}
}
