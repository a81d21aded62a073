package main

import (
	"product-catalog/internal/database"
	"product-catalog/migrations"

	"github.com/spf13/cobra"
)

// catalogctl migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := bootDB()
		if err != nil {
			return err
		}
		defer db.Close()

		return database.RunMigrations(db.DB().DB, migrations.FS, ".", log)
	},
}

// catalogctl migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := bootDB()
		if err != nil {
			return err
		}
		defer db.Close()

		return database.RollbackMigration(db.DB().DB, migrations.FS, ".", log)
	},
}

// catalogctl migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := bootDB()
		if err != nil {
			return err
		}
		defer db.Close()

		return database.GetMigrationStatus(db.DB().DB, migrations.FS, ".")
	},
}
