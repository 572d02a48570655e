package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/langquiz/internal/quiz"
	"github.com/abhisek/langquiz/internal/topic"
	"github.com/abhisek/langquiz/internal/ui/theme"
)

var quizCmd = &cobra.Command{
	Use:   "quiz [topic]",
	Short: "Answer generated multiple-choice questions",
	Long: "Generates Spanish listening questions about a topic, grounded in similar indexed\n" +
		"questions, and grades each answer. Without a topic argument a menu is shown.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rounds, _ := cmd.Flags().GetInt("rounds")
		policyName, _ := cmd.Flags().GetString("policy")
		if policyName == "" {
			policyName = cfg.Quiz.Policy
		}
		policy, err := quiz.PolicyByName(policyName)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		out := cmd.OutOrStdout()
		in := bufio.NewReader(cmd.InOrStdin())

		name := ""
		if len(args) == 1 {
			name = args[0]
		} else if name, err = chooseTopic(out, in); err != nil {
			return err
		}

		a, err := newServices(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close(ctx, out)

		practice := newPractice(ctx, a, policy)

		correct := 0
		for i := 0; i < rounds; i++ {
			ok, err := playRound(ctx, out, in, practice, name)
			if err != nil {
				return err
			}
			if ok {
				correct++
			}
		}
		if rounds > 1 {
			fmt.Fprintf(out, "\n%s %d/%d\n", theme.Label.Render("Score:"), correct, rounds)
		}
		return nil
	},
}

func chooseTopic(out io.Writer, in *bufio.Reader) (string, error) {
	fmt.Fprintln(out, theme.Title.Render("Choose a topic"))
	for i, t := range topic.Topics {
		fmt.Fprintf(out, "  %d. %s\n", i+1, t)
	}
	fmt.Fprint(out, theme.Hint.Render("Number or your own topic: "))

	line, err := readLine(in)
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(topic.Topics) {
		return topic.Topics[n-1], nil
	}
	if line == "" {
		return "", fmt.Errorf("no topic chosen")
	}
	return line, nil
}

func playRound(ctx context.Context, out io.Writer, in *bufio.Reader, p *quiz.Practice, name string) (bool, error) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, theme.Hint.Render("Generating a question about "+name+"..."))

	r, err := p.Start(ctx, name)
	if err != nil {
		return false, fmt.Errorf("could not generate a question: %w", err)
	}
	q := r.Question()

	fmt.Fprintln(out, theme.Card.Render(theme.Body.Render(q.Text)))
	for i, o := range q.Options {
		fmt.Fprintln(out, "  "+theme.Option(i+1, o, false, false))
	}

	selected, err := readChoice(out, in, len(q.Options))
	if err != nil {
		return false, err
	}

	fb, err := p.Answer(ctx, r, selected)
	if err != nil {
		return false, err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, theme.Verdict(fb.IsCorrect))
	for i, o := range q.Options {
		fmt.Fprintln(out, "  "+theme.Option(i+1, o, i+1 == selected, i+1 == fb.CorrectIndex))
	}
	fmt.Fprintln(out, theme.Field("Explanation", fb.Explanation))
	if fb.Disagrees() {
		fmt.Fprintln(out, theme.Uncertain.Render("The tutor's verdict differed from the answer key ("+string(fb.Source)+" decided)."))
	}
	return fb.IsCorrect, nil
}

func readChoice(out io.Writer, in *bufio.Reader, n int) (int, error) {
	for {
		fmt.Fprint(out, theme.Hint.Render(fmt.Sprintf("Your answer (1-%d): ", n)))
		line, err := readLine(in)
		if err != nil {
			return 0, err
		}
		if v, err := strconv.Atoi(line); err == nil && v >= 1 && v <= n {
			return v, nil
		}
		fmt.Fprintln(out, theme.Incorrect.Render("Please enter a number between 1 and "+strconv.Itoa(n)+"."))
	}
}

// readLine returns the next trimmed input line. EOF after partial input
// still returns that input.
func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	quizCmd.Flags().IntP("rounds", "r", 1, "Number of questions to play")
	quizCmd.Flags().String("policy", "", "Correctness policy: trust-model, trust-local, require-agreement")
}
