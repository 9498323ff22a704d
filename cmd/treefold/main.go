package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/treefold/treefold/cmd/treefold/logger"
)

// Set via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagHidden bool
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:   "treefold [directory]",
	Short: "Browse a directory tree with folded single-child paths",
	Long: `treefold is a terminal file tree that renders chains of lone-child
directories as a single row (a/b/c), the way code editors compact
package folders. Expand loads lazily, and the view follows filesystem
changes while it runs.`,
	Args:    cobra.MaximumNArgs(1),
	Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	RunE:    run,

	SilenceUsage:  true,
	SilenceErrors: true,
}

func run(cmd *cobra.Command, args []string) error {
	if err := logger.Init(logger.Options{
		Enabled: flagDebug,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("open %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	cfg := LoadConfig(ConfigPath())
	if flagHidden {
		cfg.ShowHidden = true
	}

	logger.Info("starting treefold", "root", root, "hidden", cfg.ShowHidden)
	m, err := NewModel(root, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("tui failed", "error", err)
		return err
	}
	return nil
}

func main() {
	rootCmd.Flags().BoolVarP(&flagHidden, "hidden", "a", false, "show hidden files")
	rootCmd.Flags().BoolVarP(&flagDebug, "debug", "d", false, "write a debug log under ~/.treefold/logs")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
