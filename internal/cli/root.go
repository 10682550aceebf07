package cli

import (
	"os"

	"knowledge-quiz/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "knowledge-quiz",
		Short: "Single-user knowledge quiz with accounts, records, and achievements",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "override the database path")
	cmd.AddCommand(NewPlayCmd(&configPath, &dbPath))
	cmd.AddCommand(NewMigrateCmd(&configPath, &dbPath))
	cmd.AddCommand(NewExportCmd(&configPath, &dbPath))
	cmd.AddCommand(NewImportCmd(&configPath, &dbPath))
	cmd.AddCommand(NewRankingCmd(&configPath, &dbPath))
	cmd.AddCommand(NewRecordsCmd(&configPath, &dbPath))
	return cmd
}

// loadConfig reads the config file, falling back to defaults when it does
// not exist, and applies the --db override.
func loadConfig(configPath, dbPath string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
		cfg = config.Default()
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	return cfg, nil
}
