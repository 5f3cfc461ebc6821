package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/flowplan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify flowplan configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/flowplan/config.yaml
Project-specific overrides can be placed in .flowplan.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		values := config.Values(cfg)

		switch len(args) {
		case 0:
			fmt.Fprintf(out, "# user config: %s\n", config.GetUserConfigPath())
			if p := config.GetProjectConfigPath(); p != "" {
				fmt.Fprintf(out, "# project config: %s\n", p)
			}
			fmt.Fprintf(out, "# api key source: %s\n", config.GetAPIKeySource(cfg))
			for _, k := range config.Keys() {
				fmt.Fprintf(out, "%s: %s\n", k, values[k])
			}
			return nil
		case 1:
			v, ok := values[args[0]]
			if !ok {
				return fmt.Errorf("%w: %s", config.ErrUnknownKey, args[0])
			}
			fmt.Fprintln(out, v)
			return nil
		default:
			if err := config.SetValue(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(out, "Set %s in %s\n", args[0], config.GetUserConfigPath())
			return nil
		}
	},
}
