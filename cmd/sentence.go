package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/langquiz/internal/generation"
	"github.com/abhisek/langquiz/internal/sentences"
	"github.com/abhisek/langquiz/internal/ui/theme"
)

var sentenceCmd = &cobra.Command{
	Use:   "sentence [group or topic]",
	Short: "Get an English sentence to translate by hand",
	Long: "Prints an English sentence for writing practice. Built-in groups: " +
		strings.Join(sentences.GroupNames, ", ") + ".\nAny other name is used as a custom topic for the model.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		group := sentences.GroupNames[0]
		if len(args) == 1 {
			group = args[0]
		}
		useAI := cfg.Sentences.UseAI
		if cmd.Flags().Changed("ai") {
			useAI, _ = cmd.Flags().GetBool("ai")
		}
		show, _ := cmd.Flags().GetBool("show-spanish")

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		out := cmd.OutOrStdout()

		var client *generation.Client
		if useAI {
			a, err := newServices(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close(ctx, out)
			client = a.client
		}

		gen := sentences.NewGenerator(client,
			sentences.WithAIChance(cfg.Sentences.AIChance),
			sentences.WithStructuredOutput(cfg.Quiz.StructuredOutput),
		)
		s, err := gen.Next(ctx, group, useAI)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, theme.Card.Render(theme.Body.Render(s.English)))
		if show {
			fmt.Fprintln(out, theme.Field("Spanish", s.Spanish))
		} else {
			fmt.Fprintln(out, theme.Hint.Render(fmt.Sprintf(
				"Write it in Spanish, then: langquiz handwriting <photo> -e %q -g %q",
				s.English, group)))
		}
		return nil
	},
}

func init() {
	sentenceCmd.Flags().Bool("ai", false, "Ask the model for a fresh sentence (default from config)")
	sentenceCmd.Flags().Bool("show-spanish", false, "Also print the reference translation")
}
