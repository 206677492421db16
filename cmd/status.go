package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved prompt and result",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, s, err := openSession()
		if err != nil {
			return err
		}
		defer st.Close()

		if !s.CanClear() {
			cmd.Println("no saved session")
			return nil
		}

		cmd.Printf("Status: %s\n", s.Status())
		cmd.Printf("Prompt (%d characters):\n%s\n", s.InputLength(), orNone(s.Input()))
		cmd.Printf("Enhanced:\n%s\n", orNone(s.Output()))
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "  (none)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
