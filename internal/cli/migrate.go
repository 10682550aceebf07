package cli

import (
	"context"
	"fmt"

	"knowledge-quiz/internal/infra/sqlite"
	"knowledge-quiz/internal/infra/sqlite/migrations"
	"knowledge-quiz/internal/seed"
	"github.com/spf13/cobra"
)

// NewMigrateCmd applies database migrations and optionally seeds the bank.
func NewMigrateCmd(configPath, dbPath *string) *cobra.Command {
	var withSeed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the quiz database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), *configPath, *dbPath, withSeed, cmd)
		},
	}
	cmd.Flags().BoolVar(&withSeed, "seed", false, "insert the built-in question fixtures into an empty bank")
	return cmd
}

func runMigrate(ctx context.Context, configPath, dbPath string, withSeed bool, cmd *cobra.Command) error {
	cfg, err := loadConfig(configPath, dbPath)
	if err != nil {
		return err
	}
	store, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := migrations.Run(ctx, store.DB()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")

	if !withSeed {
		return nil
	}
	var count int
	if err := store.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM questions").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "bank already holds %d questions, seed skipped\n", count)
		return nil
	}
	questions := seed.Questions()
	if err := store.InsertQuestions(ctx, questions); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d questions\n", len(questions))
	return nil
}
