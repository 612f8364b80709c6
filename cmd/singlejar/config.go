// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/singlejar/singlejar/internal/config"
)

func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect singlejar configuration",
		Long: `Inspect singlejar configuration.

Settings are read from built-in defaults, then the config file
(<user config dir>/singlejar/config.cue or ./singlejar.cue), then
` + config.EnvPrefix + `_* environment variables, then flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			out := app.stdout
			fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
			fmt.Fprintln(out)
			if path != "" {
				fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), path)
			} else {
				fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("no_duplicates"), SuccessStyle.Render(fmt.Sprint(cfg.NoDuplicates)))
			fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("compress"), SuccessStyle.Render(fmt.Sprint(cfg.Compress)))
			fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("log_level"), SuccessStyle.Render(string(cfg.LogLevel)))
			fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("resource"), SuccessStyle.Render(cfg.Resource))
			fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("color_scheme"), SuccessStyle.Render(string(cfg.ColorScheme)))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}
