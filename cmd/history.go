package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/langquiz/internal/store"
	"github.com/abhisek/langquiz/internal/ui/theme"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past practice rounds and accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")
		out := cmd.OutOrStdout()

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		stats, err := s.EventRepo().RoundStatsByKind(ctx)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		if len(stats) == 0 {
			fmt.Fprintln(out, "No practice rounds yet. Try 'langquiz quiz'.")
			return nil
		}

		fmt.Fprintln(out, theme.Title.Render("Accuracy"))
		for _, st := range stats {
			fmt.Fprintf(out, "  %-12s %4d rounds  %5.1f%%\n", st.Kind, st.Rounds, st.Accuracy()*100)
		}

		rounds, err := s.EventRepo().QueryRounds(ctx, store.QueryOpts{Limit: limit, Kind: store.RoundKind(kind)})
		if err != nil {
			return fmt.Errorf("query rounds: %w", err)
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.Title.Render("Recent rounds"))
		fmt.Fprintln(out, theme.Separator(96))
		for _, r := range rounds {
			mark := theme.Correct.Render("✓")
			if !r.IsCorrect {
				mark = theme.Incorrect.Render("✗")
			}
			fmt.Fprintf(out, "%s  %-16s  %-11s  %-14s  %s  %s\n",
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(r.Topic, 16),
				r.Kind,
				r.VerdictSource,
				mark,
				truncate(r.Prompt, 40),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of rounds to show")
	historyCmd.Flags().StringP("kind", "k", "", "Filter by kind: quiz, handwriting")
}
