package main

import (
	"fmt"

	"github.com/joshu-sajeev/stepform/internal/app"
	"github.com/joshu-sajeev/stepform/migrations"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := app.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		sqlDB, err := rt.DB.DB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}

		if err := migrations.Up(sqlDB); err != nil {
			return err
		}

		version, err := migrations.Version(sqlDB)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
		return nil
	},
}
