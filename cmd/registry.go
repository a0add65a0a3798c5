package cmd

import "github.com/spf13/cobra"

func RegisterCommands(root *cobra.Command) {
	root.AddCommand(versionCmd)
	root.AddCommand(checkCmd)
	root.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
}
