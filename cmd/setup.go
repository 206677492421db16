package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/promptperfect/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure promptperfect (re-run anytime to edit settings)",
	// Bypass the normal PersistentPreRunE so setup can repair a broken config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load existing settings as defaults if they parse.
		existing, err := config.LoadGlobal()
		if err != nil {
			existing = nil
		}

		c, err := config.RunSetup(existing, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("setup cancelled: %w", err)
		}
		if err := config.SaveGlobal(c); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		path, _ := config.GlobalPath()
		fmt.Fprintf(cmd.OutOrStdout(), "  ✓ Saved %s\n", path)
		fmt.Fprintln(cmd.OutOrStdout(), "  Run 'promptperfect' to start.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
