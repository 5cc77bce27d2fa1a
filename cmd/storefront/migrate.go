package main

import (
	"github.com/spf13/cobra"

	"storefront/pkg/db"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			return db.Migrate(cmd.Context(), a.db, a.log)
		},
	}
}
