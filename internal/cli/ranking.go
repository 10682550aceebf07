package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"knowledge-quiz/internal/app"
	"knowledge-quiz/internal/domain"
	"knowledge-quiz/internal/infra/sqlite"
	"github.com/spf13/cobra"
)

// NewRankingCmd prints the global top list by total points.
func NewRankingCmd(configPath, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ranking",
		Short: "Show the top players by total points",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, *dbPath)
			if err != nil {
				return err
			}
			store, err := sqlite.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := app.NewAccountService(store).Ranking(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no results yet")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tPLAYER\tPOINTS")
			for i, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%d\n", i+1, e.Username, e.TotalPoints)
			}
			return w.Flush()
		},
	}
}

// NewRecordsCmd prints one user's results, stats, and achievements.
func NewRecordsCmd(configPath, dbPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records <username>",
		Short: "Show a user's results, stats, and achievements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, *dbPath)
			if err != nil {
				return err
			}
			store, err := sqlite.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := app.NewAccountService(store)
			username := args[0]
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			results, err := svc.Records(ctx, username)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					fmt.Fprintf(out, "user %q not found\n", username)
					return nil
				}
				return err
			}
			stats, err := svc.Stats(ctx, username)
			if err != nil {
				return err
			}
			achievements, err := svc.Achievements(ctx, username)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "records for %s\n\n", username)
			if len(results) == 0 {
				fmt.Fprintln(out, "no quizzes finished yet")
			} else {
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TYPE\tPOINTS\tDATE")
				for _, r := range results {
					fmt.Fprintf(w, "%s\t%d\t%s\n", r.QuizType, r.Points, r.Date)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "\nquizzes: %d  best: %d  average: %.2f\n", stats.Count, stats.Best, stats.Average)
			if len(achievements) > 0 {
				fmt.Fprintln(out, "\nachievements:")
				for _, a := range achievements {
					fmt.Fprintf(out, "  %s (%s): %s\n", a.Name, a.Date, a.Description)
				}
			}
			return nil
		},
	}
	return cmd
}
