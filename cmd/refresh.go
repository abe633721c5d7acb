package main

import (
	"encoding/json"
	"os"

	"github.com/itsatony/headcount/internal/server"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run one refresh tick against the counting service and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		app, err := server.Build(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		report := app.Scheduler.Tick(cmd.Context())

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
		return report.Err
	},
}
