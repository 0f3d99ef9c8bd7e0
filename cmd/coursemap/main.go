package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/golfmapper/coursemap/internal/config"
	"github.com/golfmapper/coursemap/internal/debug"
)

var (
	// Run configuration resolved before any subcommand runs
	run config.Run

	configPath string
	logLevel   string
	logJSON    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coursemap",
		Short: "Map played golf courses onto the reference course database",
		Long: `Matches the courses recorded on a Garmin device against the reference golf
course database and grades every match with a confidence level from 1 to 5.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML run configuration (default coursemap.toml when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON instead of console output")

	rootCmd.AddCommand(createMapCmd())
	rootCmd.AddCommand(createExplainCmd())
	rootCmd.AddCommand(createPingCmd())
	rootCmd.AddCommand(createCacheCmd())
	rootCmd.AddCommand(createServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const defaultConfigFile = "coursemap.toml"

// setup loads .env, the run configuration and the logger, in that order.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	path := configPath
	if path == "" && config.Exists(defaultConfigFile) {
		path = defaultConfigFile
	}

	var err error
	run, err = config.LoadRun(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		run.Log.Level = logLevel
	}
	if flags.Changed("log-json") {
		run.Log.JSON = logJSON
	}
	if err := debug.Setup(run.Log.Level, run.Log.JSON); err != nil {
		return err
	}

	if path != "" {
		log.Debug().Str("config", path).Msg("Loaded run configuration")
	}
	return nil
}
