package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/langquiz/internal/embeddings"
	"github.com/abhisek/langquiz/internal/retrieval"
	"github.com/abhisek/langquiz/internal/transcript"
	"github.com/abhisek/langquiz/internal/ui/theme"
)

var indexCmd = &cobra.Command{
	Use:   "index [questions.json...]",
	Short: "Add question files to the question bank",
	Long: "Indexes question files for retrieval. With retrieval.postgres_dsn set, questions are\n" +
		"embedded into pgvector. Otherwise they are copied into the questions directory,\n" +
		"which is embedded in memory when a quiz starts.\n\n" +
		"--transcript structures a listening transcript into questions with the model first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		transcriptPath, _ := cmd.Flags().GetString("transcript")
		sourceID, _ := cmd.Flags().GetString("source")
		recreate, _ := cmd.Flags().GetBool("recreate")
		if transcriptPath == "" && len(args) == 0 && !recreate {
			return fmt.Errorf("nothing to index: pass question files or --transcript")
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		out := cmd.OutOrStdout()

		files := args
		if transcriptPath != "" {
			if sourceID == "" {
				sourceID = retrieval.SourceID(transcriptPath)
			}
			path, err := structureTranscript(ctx, cmd, transcriptPath, sourceID)
			if err != nil {
				return err
			}
			files = append(files, path)
		}

		if cfg.Retrieval.PostgresDSN == "" {
			return copyToQuestionsDir(out, files, recreate)
		}
		return indexPostgres(ctx, out, files, recreate)
	},
}

func structureTranscript(ctx context.Context, cmd *cobra.Command, path, sourceID string) (string, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	a, err := newServices(ctx, cmd)
	if err != nil {
		return "", err
	}
	defer a.Close(ctx, cmd.OutOrStdout())

	recs, err := transcript.NewStructurer(a.client).Structure(ctx, string(text))
	if err != nil {
		return "", err
	}
	dst := filepath.Join(cfg.Retrieval.QuestionsDir, sourceID+".json")
	if err := retrieval.WriteQuestionsFile(dst, recs); err != nil {
		return "", err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d questions from %s → %s\n",
		theme.Label.Render("Structured"), len(recs), path, dst)
	return dst, nil
}

func copyToQuestionsDir(out io.Writer, files []string, recreate bool) error {
	parsed := make([][]retrieval.Record, len(files))
	for i, f := range files {
		recs, err := retrieval.ParseQuestionsFile(f)
		if err != nil {
			return err
		}
		parsed[i] = recs
	}

	dir := cfg.Retrieval.QuestionsDir
	if recreate {
		n, err := clearQuestionsDir(dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %d question files from %s\n", theme.Label.Render("Removed"), n, dir)
	}

	for i, f := range files {
		dst := filepath.Join(dir, retrieval.SourceID(f)+".json")
		if recreate || abs(dst) != abs(f) {
			if err := retrieval.WriteQuestionsFile(dst, parsed[i]); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "%s %d questions in %s\n", theme.Label.Render("Stored"), len(parsed[i]), dst)
	}
	fmt.Fprintln(out, theme.Hint.Render("No postgres_dsn configured; questions are embedded in memory at quiz start."))
	return nil
}

// clearQuestionsDir removes the question files the in-memory bank is built
// from and reports how many were removed.
func clearQuestionsDir(dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", dir, err)
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			return 0, fmt.Errorf("remove question file: %w", err)
		}
	}
	return len(paths), nil
}

func abs(p string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return p
}

func indexPostgres(ctx context.Context, out io.Writer, files []string, recreate bool) error {
	emb, err := embeddings.New(ctx, cfg.Embeddings)
	if err != nil {
		return fmt.Errorf("embeddings: %w", err)
	}
	idx, closeIdx, _, err := openIndex(ctx, emb.Dimensions())
	if err != nil {
		return err
	}
	defer closeIdx()

	loader, err := retrieval.NewLoader(ctx, emb, idx, retrieval.Options{Recreate: recreate})
	if err != nil {
		return err
	}
	for _, f := range files {
		n, err := loader.IndexFile(ctx, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %d questions from %s\n", theme.Label.Render("Indexed"), n, f)
	}

	total, err := idx.Count(ctx)
	if err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	fmt.Fprintf(out, "%s %d questions (%s)\n", theme.Label.Render("Index holds"), total, emb.ModelID())
	return nil
}

func init() {
	indexCmd.Flags().StringP("transcript", "t", "", "Transcript file to structure into questions")
	indexCmd.Flags().String("source", "", "Source ID for --transcript output (default: transcript file name)")
	indexCmd.Flags().Bool("recreate", false, "Empty the index (or the questions directory) before adding")
}
