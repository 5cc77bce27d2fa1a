package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/jobs"
)

func reapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reap",
		Short: "Cancel pending orders older than STALE_ORDER_AFTER once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := jobs.NewReaper(a.checkout(), a.log).RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cancelled %d stale orders\n", n)
			return nil
		},
	}
}
