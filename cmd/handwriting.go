package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/langquiz/internal/handwriting"
	"github.com/abhisek/langquiz/internal/ui/theme"
)

var handwritingCmd = &cobra.Command{
	Use:   "handwriting <image>",
	Short: "Review a photo of a handwritten Spanish translation",
	Long: "Sends a photo of your handwritten translation of an English sentence to a vision\n" +
		"model and prints the extracted text, feedback and a verdict. Use 'langquiz sentence'\n" +
		"to get a sentence to translate.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		english, _ := cmd.Flags().GetString("english")
		expected, _ := cmd.Flags().GetString("expected")
		group, _ := cmd.Flags().GetString("group")
		policyName, _ := cmd.Flags().GetString("policy")
		if policyName == "" {
			policyName = cfg.Handwriting.Policy
		}
		policy, err := handwriting.PolicyByName(policyName)
		if err != nil {
			return err
		}

		image, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		out := cmd.OutOrStdout()

		a, err := newServices(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close(ctx, out)

		ev := handwriting.NewEvaluator(a.client, policy, a.metrics).Evaluate(ctx, image, english, expected)
		if ev.Err == "" {
			if err := a.store.EventRepo().AppendRound(ctx, ev.Event(group, english)); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: could not record round:", err)
			}
		}

		fmt.Fprintln(out, theme.Field("English", english))
		fmt.Fprintln(out, theme.Field("You wrote", ev.ExtractedText))
		if ev.Assessment != "" {
			fmt.Fprintln(out, theme.Field("Assessment", ev.Assessment))
		}
		fmt.Fprintln(out, theme.Field("Feedback", ev.FeedbackText))
		fmt.Fprintln(out, theme.Field("Correct translation", ev.CorrectTranslation))
		if ev.Similarity > 0 {
			fmt.Fprintln(out, theme.Field("Similarity", strconv.FormatFloat(ev.Similarity, 'f', 2, 64)))
		}

		switch ev.Verdict {
		case handwriting.Unknown:
			fmt.Fprintln(out, theme.Uncertain.Render("? No verdict"))
		default:
			fmt.Fprintln(out, theme.Verdict(ev.IsCorrect))
		}
		if ev.VerdictSource == handwriting.SourceHeuristic {
			fmt.Fprintln(out, theme.Hint.Render("Verdict inferred from the feedback wording."))
		}
		return nil
	},
}

func init() {
	handwritingCmd.Flags().StringP("english", "e", "", "The English sentence you translated (required)")
	handwritingCmd.Flags().String("expected", "", "Reference Spanish translation, for the similarity score")
	handwritingCmd.Flags().StringP("group", "g", "", "Sentence group or topic, recorded with the round")
	handwritingCmd.Flags().String("policy", "", "Verdict policy: marker-then-sentiment, marker-only")
	_ = handwritingCmd.MarkFlagRequired("english")
}
