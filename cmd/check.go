package cmd

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the desktop session and required programs",
	Long: `Detects the display protocol, looks up the dictionary and clipboard
programs on PATH and reports whether the dictionary is running. The
selection is not read and nothing is launched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTranslator(cmd)
		if err != nil {
			return err
		}
		return t.Check(cmd.Context())
	},
}
