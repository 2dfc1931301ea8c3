// Package cmd holds the cuticulome command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cuticulome/config"
	"cuticulome/internal/envHelper"
	"cuticulome/internal/logging"
)

var (
	secretsFile string
	envFiles    []string
	verbose     bool

	cfg    *config.AppConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cuticulome",
	Short: "Cuticulome.db - browse, export and submit arthropod cuticular proteins",
	Long: `Cuticulome.db is a database of function-defined arthropod cuticular proteins.

The serve command exposes filtering, zip export, statistics and the submission
relay over HTTP. The export and stats commands run the same operations once
from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		bootstrap, err := logging.New("local", verbose)
		if err != nil {
			return err
		}
		envHelper.LoadEnv(bootstrap, envFiles...)

		cfg, err = config.Load(secretsFile)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		logger, err = logging.New(cfg.AppEnv, verbose)
		if err != nil {
			return err
		}
		logger.Info("configuration loaded",
			zap.String("app_env", cfg.AppEnv),
			zap.String("db_driver", cfg.Database.Driver),
			zap.String("db", cfg.Database.Redacted()),
			zap.Bool("relay_enabled", cfg.Relay.Enabled()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&secretsFile, "secrets", config.DefaultSecretsFile, "TOML secrets file with a [google_form] table")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "env files loaded before configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, exportCmd, statsCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
