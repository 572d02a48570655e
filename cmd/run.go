package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/langquiz/internal/app"
	"github.com/abhisek/langquiz/internal/quiz"
)

// runApp builds the quiz pipeline and launches the interactive quiz.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	policy, err := quiz.PolicyByName(cfg.Quiz.Policy)
	if err != nil {
		return err
	}

	a, err := newServices(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(ctx, cmd.OutOrStdout())

	return app.Run(ctx, newPractice(ctx, a, policy))
}

func newPractice(ctx context.Context, a *services, policy quiz.ReconcilePolicy) *quiz.Practice {
	gen := quiz.NewGenerator(a.client, a.retriever(ctx), a.translator(ctx), quiz.Config{
		TopK:             cfg.Retrieval.TopK,
		StructuredOutput: cfg.Quiz.StructuredOutput,
	}, quiz.WithMetrics(a.metrics))
	eval := quiz.NewEvaluator(a.client, policy,
		quiz.WithMetrics(a.metrics),
		quiz.WithStructuredOutput(cfg.Quiz.StructuredOutput),
	)
	return quiz.NewPractice(gen, eval, a.store.EventRepo())
}
