// FilePath: cmd/main.go
package main

import (
	"fmt"
	"os"

	tm "github.com/buger/goterm"
	"github.com/itsatony/headcount/internal/config"
	"github.com/spf13/cobra"
	nuts "github.com/vaudience/go-nuts"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "headcount",
	Short: "Camera occupancy hub",
	Long:  `Headcount polls people-counting cameras, stores their in/out observations and serves occupancy and schedule queries.`,
	// serve is the default command
	RunE: runServe,
}

func main() {
	nuts.InitVersion()
	rootCmd.Version = nuts.GetVersion()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { config.SetConfigFile(cfgFile) })
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")

	rootCmd.AddCommand(serveCmd, refreshCmd, migrateCmd, seedCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// ClearConsole clears the console screen and draws the logo.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"    __                   __                      __ ",
		"   / /_  ___  ____ _____/ /________  __  ______  / /_",
		"  / __ \\/ _ \\/ __ `/ __  / ___/ __ \\/ / / / __ \\/ __/",
		" / / / /  __/ /_/ / /_/ / /__/ /_/ / /_/ / / / / /_  ",
		"/_/ /_/\\___/\\__,_/\\__,_/\\___/\\____/\\__,_/_/ /_/\\__/  ",
		"......................................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
