package main

import (
	"fmt"

	"product-catalog/internal/database"
	"product-catalog/internal/seed"
	"product-catalog/migrations"

	"github.com/spf13/cobra"
)

// catalogctl seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a demo catalog into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := bootDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.RunMigrations(db.DB().DB, migrations.FS, ".", log); err != nil {
			return err
		}

		result, err := seed.Demo(cmd.Context(), db.Repositories(), db, log)
		if err != nil {
			return err
		}

		fmt.Printf("Seeded %d categories, %d attributes, %d products\n", result.Categories, result.Attributes, result.Products)
		return nil
	},
}
