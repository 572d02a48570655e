package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/langquiz/internal/chat"
	"github.com/abhisek/langquiz/internal/ui/theme"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask a Spanish tutor questions",
	Long: "Free-form conversation about Spanish. Earlier turns are kept as context.\n" +
		"Type /clear to start over and /exit (or Ctrl+D) to leave.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		turns, _ := cmd.Flags().GetInt("max-turns")

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

		session := chat.NewSession(a.client, chat.WithMaxTurns(turns))
		return chatLoop(ctx, out, bufio.NewReader(cmd.InOrStdin()), session)
	},
}

func chatLoop(ctx context.Context, out io.Writer, in *bufio.Reader, session *chat.Session) error {
	fmt.Fprintln(out, theme.Hint.Render("Ask about the Spanish language. /clear resets, /exit quits."))
	for {
		fmt.Fprint(out, theme.Label.Render("You: "))
		line, err := in.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			if err == io.EOF {
				fmt.Fprintln(out)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimSpace(line)

		switch strings.ToLower(line) {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/clear":
			session.Reset()
			fmt.Fprintln(out, theme.Hint.Render("Conversation cleared."))
			continue
		}

		reply, err := session.Send(ctx, line)
		switch {
		case errors.Is(err, chat.ErrNoReply):
			fmt.Fprintln(out, theme.Incorrect.Render("The tutor could not answer. Try again."))
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "%s %s\n", theme.Label.Render("Tutor:"), theme.Body.Render(reply))
		}
	}
}

func init() {
	chatCmd.Flags().Int("max-turns", chat.DefaultMaxTurns, "Exchanges kept as context")
}
