package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/langquiz/internal/config"
	"github.com/abhisek/langquiz/internal/observe"
	"github.com/abhisek/langquiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "langquiz",
	Short: "Spanish practice with generated quizzes and handwriting review",
	Long: "langquiz generates multiple-choice Spanish listening questions grounded in a bank of\n" +
		"indexed questions, grades answers with model feedback, and reviews photos of\n" +
		"handwritten translations.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

// cfg is the loaded configuration, set before any command runs.
var cfg *config.Config

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LANGQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("metrics", false, "Print a metrics summary on exit")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(handwritingCmd)
	rootCmd.AddCommand(sentenceCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.LogLevel = lvl
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		c.DBPath = p
	}
	cfg = c
	slog.SetDefault(observe.NewLogger(cmd.ErrOrStderr(), c.LogLevel))
	return nil
}

// resolveDBPath returns the database path from --db or the config file,
// then LANGQUIZ_DB, then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
