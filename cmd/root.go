package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fakeyudi/promptperfect/internal/clipboard"
	"github.com/fakeyudi/promptperfect/internal/config"
	"github.com/fakeyudi/promptperfect/internal/logging"
	"github.com/fakeyudi/promptperfect/internal/store"
	"github.com/fakeyudi/promptperfect/internal/tui"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// logger is built in PersistentPreRunE; nop until then.
var logger = zap.NewNop()

var debug bool

var rootCmd = &cobra.Command{
	Use:   "promptperfect",
	Short: "Refine your prompts for better AI results",
	Long: `promptperfect sends a prompt to a rephrase service and shows the enhanced
version. The last prompt and result are kept between runs.

Run without arguments to start the interactive editor.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.ApplyEnv(config.Merge(global, project), os.Getenv)
		if err := cfg.Validate(); err != nil {
			return err
		}

		dir, err := store.DataDir()
		if err != nil {
			return fmt.Errorf("resolving data directory: %w", err)
		}
		l, err := logging.New(filepath.Join(dir, logging.FileName), cfg.LogLevel, debug)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// The editor needs a real terminal.
		if !isTerminal(cmd.InOrStdin()) {
			return errors.New("interactive mode needs a terminal; use 'promptperfect enhance' instead")
		}

		st, s, err := openSession()
		if err != nil {
			return err
		}
		defer st.Close()

		clip, err := clipboard.New(cfg.Clipboard, os.Stderr)
		if err != nil {
			return err
		}

		m := tui.New(cmd.Context(), s, newClient(), clip, tui.Options{
			Markdown: cfg.Markdown(),
			Dark:     lipgloss.HasDarkBackground(),
			Logger:   logger,
		})
		return tui.Run(m)
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs the root command and flushes the logger afterwards. Cobra
// skips PersistentPostRun when RunE fails, so the flush happens here.
func execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Sync()
	return err
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
}
