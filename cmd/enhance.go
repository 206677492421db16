package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fakeyudi/promptperfect/internal/clipboard"
	"github.com/fakeyudi/promptperfect/internal/session"
)

var copyResult bool

var enhanceCmd = &cobra.Command{
	Use:   "enhance [text]",
	Short: "Enhance a prompt without the interactive editor",
	Long: `Enhance sends a prompt to the rephrase service and prints the result.

The prompt is taken from the argument, then from piped stdin. With neither,
the prompt saved by the last session is sent again.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, s, err := openSession()
		if err != nil {
			return err
		}
		defer st.Close()

		switch {
		case len(args) == 1:
			s.Edit(args[0])
		case !isTerminal(cmd.InOrStdin()):
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			if text := strings.TrimRight(string(data), "\r\n"); text != "" {
				s.Edit(text)
			}
		}

		if err := s.Enhance(cmd.Context(), newClient()); err != nil {
			if errors.Is(err, session.ErrBlankInput) {
				return errors.New("nothing to enhance: pass a prompt as an argument or on stdin")
			}
			return fmt.Errorf("%s (%w)", session.FailureNotice, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), s.Output())

		if copyResult {
			clip, err := clipboard.New(cfg.Clipboard, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			text, _ := s.CopyText()
			if err := clipboard.Copy(clip, text); err != nil {
				s.CopyFailed(err)
				return nil
			}
			s.Copied()
			logger.Debug("Copied result", zap.Int("chars", len(text)))
			fmt.Fprintln(cmd.ErrOrStderr(), "Copied!")
		}
		return nil
	},
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

func init() {
	enhanceCmd.Flags().BoolVar(&copyResult, "copy", false, "also copy the result to the clipboard")
	rootCmd.AddCommand(enhanceCmd)
}
