package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/seat-allotment/cmd/cli/commands"
	"github.com/jakechorley/seat-allotment/internal/config"
	"github.com/jakechorley/seat-allotment/pkg/utils/logging"
)

var (
	env     string
	logsDir string
	verbose bool
	app     *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "allot",
		Short: "Seat allotment CLI - allot seats to ranked candidates",
		Long: `A CLI tool that allots seats to candidates in rank order from their ranked options,
honouring reservation categories, and saves, exports and publishes the results.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				app.Close()
				if app.Logger != nil {
					app.Logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (test, prod, etc.); selects config, .env and token files")
	rootCmd.PersistentFlags().StringVar(&logsDir, "logs", logging.DefaultLogsDir, "Directory for log files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")

	// Placeholder app so commands can capture the pointer at construction time
	app = &commands.AppContext{}

	rootCmd.AddCommand(commands.AllotCmd(app))
	rootCmd.AddCommand(commands.ListRunsCmd(app))
	rootCmd.AddCommand(commands.ExportRunCmd(app))
	rootCmd.AddCommand(commands.PublishRunCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger, .env variables and configuration.
// The database and sheets client are created on first use.
func initApp() error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env, logsDir, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	if err := config.LoadDotEnv(env); err != nil {
		return err
	}

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	switch {
	case errors.Is(err, config.ErrNotFound):
		app.Logger.Info("No config file found, using flags only")
		app.Cfg = &config.Config{}
	case err != nil:
		return fmt.Errorf("failed to load config: %w", err)
	default:
		app.Logger.Debug("Configuration loaded successfully")
	}

	return nil
}
