// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/singlejar/singlejar/pkg/jar"
	"github.com/singlejar/singlejar/pkg/plugincache"
)

func newDumpCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <jar|Log4j2Plugins.dat>",
		Short: "List the plugins in a jar or plugin cache",
		Long: `List the plugins in a jar's plugin cache, or in a bare cache file when the
path ends in .dat. Categories and plugins are printed in sorted order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			path := args[0]
			var data []byte
			if strings.HasSuffix(path, ".dat") {
				data, err = os.ReadFile(path)
			} else {
				data, err = jar.ReadEntry(path, cfg.Resource)
			}
			if err != nil {
				return failure(err, "read plugin cache", path)
			}

			c, err := plugincache.Decode(data)
			if err != nil {
				return failure(err, "decode plugin cache", path)
			}
			printCatalog(app.stdout, c)
			return nil
		},
	}
}

func printCatalog(w io.Writer, c *plugincache.Catalog) {
	for _, name := range c.CategoryNames() {
		cat, _ := c.Category(name)
		fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(name), SubtitleStyle.Render(fmt.Sprintf("(%d)", cat.Len())))
		for _, e := range cat.Entries() {
			var flags []string
			if e.Printable {
				flags = append(flags, "printable")
			}
			if e.Defer {
				flags = append(flags, "defer")
			}
			line := fmt.Sprintf("  %s %s %s", KeyStyle.Render(e.Key), e.ClassName, SubtitleStyle.Render(e.Name))
			if len(flags) > 0 {
				line += " " + WarningStyle.Render("["+strings.Join(flags, ",")+"]")
			}
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintf(w, "%s\n", SubtitleStyle.Render(fmt.Sprintf("%d categories, %d plugins", c.Len(), c.EntryCount())))
}
