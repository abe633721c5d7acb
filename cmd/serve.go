package main

import (
	"github.com/itsatony/headcount/internal/server"
	"github.com/spf13/cobra"
	nuts "github.com/vaudience/go-nuts"
)

var serveQuiet bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the refresh scheduler",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveQuiet, "quiet", false, "skip the console banner")
}

func runServe(cmd *cobra.Command, args []string) error {
	if !serveQuiet {
		ClearConsole()
		DrawLogo()
	}
	nuts.L.Infof("[Main] Starting Headcount Hub v%s", nuts.GetVersion())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		return err
	}
	return nil
}
