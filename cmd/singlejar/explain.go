// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/singlejar/singlejar/internal/issue"
)

func newExplainCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [issue]",
		Short: "Describe a failure and how to fix it",
		Long: `Describe a failure reported by singlejar. Without an argument every known
issue is listed; with an issue number its help page is rendered.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 0 {
				for _, v := range issue.Values() {
					fmt.Fprintf(app.stdout, "%s %s\n", KeyStyle.Render(fmt.Sprintf("%3d", v.Id())), v.Title())
				}
				return nil
			}

			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid issue number %q", args[0])
			}
			page := issue.Get(issue.Id(n))
			if page == nil {
				return fmt.Errorf("unknown issue %d", n)
			}
			rendered, err := page.Render(string(cfg.ColorScheme))
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, rendered)
			return nil
		},
	}
}
