package cli

import (
	"errors"
	"fmt"

	"knowledge-quiz/internal/domain"
	"knowledge-quiz/internal/infra/sqlite"
	"knowledge-quiz/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewExportCmd writes all results to a JSON snapshot file.
func NewExportCmd(configPath, dbPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all results to a JSON snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, *dbPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Log.Path, cfg.Log.Debug)
			defer log.Sync()

			store, err := sqlite.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.ExportResults(cmd.Context(), file)
			if err != nil {
				log.Error("export results failed", zap.String("file", file), zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d results to %s\n", count, file)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "results.json", "snapshot file path")
	return cmd
}

// NewImportCmd loads a JSON snapshot into the results table. A missing
// snapshot is reported, not fatal.
func NewImportCmd(configPath, dbPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import results from a JSON snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, *dbPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Log.Path, cfg.Log.Debug)
			defer log.Sync()

			store, err := sqlite.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.ImportResults(cmd.Context(), file)
			if err != nil {
				if errors.Is(err, domain.ErrSnapshotNotFound) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s not found, nothing imported\n", file)
					return nil
				}
				log.Error("import results failed", zap.String("file", file), zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d results from %s\n", count, file)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "results.json", "snapshot file path")
	return cmd
}
