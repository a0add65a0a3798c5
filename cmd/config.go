package cmd

import (
	"fmt"

	"gdtranslate/pkg/config"
	"gdtranslate/pkg/errors"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect gdtranslate configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Display the configuration after defaults and GDTRANSLATE_* overrides are applied.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			path = unknownValue
		}

		data, err := cfg.Marshal()
		if err != nil {
			return errors.ConfigError("failed to render configuration", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", path)
		fmt.Fprint(out, string(data))
		return nil
	},
}
