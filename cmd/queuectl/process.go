package main

import (
	"fmt"

	"github.com/joshu-sajeev/stepform/internal/app"
	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run one webhook queue pass (for crontab)",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := app.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		result, err := app.NewProcessor(rt.Config, rt.DB, rt.Log).ProcessQueue(cmd.Context())
		if err != nil {
			return fmt.Errorf("process queue: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "processed=%d skipped=%d total=%d\n",
			result.Processed, result.Skipped, result.Total)
		return nil
	},
}
