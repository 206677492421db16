package cmd

import (
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the saved prompt and result",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, s, err := openSession()
		if err != nil {
			return err
		}
		defer st.Close()

		s.Clear()
		cmd.Println("Session cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
