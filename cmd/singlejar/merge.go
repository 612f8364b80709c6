// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/singlejar/singlejar/pkg/combiner"
	"github.com/singlejar/singlejar/pkg/jar"
	"github.com/singlejar/singlejar/pkg/plugincache"
)

func newMergeCommand(app *App) *cobra.Command {
	var (
		output string
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "merge -o <output> <jar>...",
		Short: "Combine the plugin caches of the given jars",
		Long: `Combine the Log4j2 plugin caches of the given jars into one.

Jars are visited in the order given. Unless --no-duplicates is set, a plugin
defined by more than one jar is taken from the last of them. The combined
cache lists categories and plugins in sorted order, so the output does not
depend on jar order when no plugin is defined twice.

By default the output is a jar holding only the combined cache. With --raw
the cache itself is written.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, app, output, raw, args)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (required)")
	cmd.Flags().BoolVar(&raw, "raw", false, "write the combined cache instead of a jar")
	cmd.Flags().Bool("no-duplicates", false, "fail when two jars define the same plugin")
	cmd.Flags().Bool("compress", true, "deflate the combined cache when that makes it smaller")
	cmd.Flags().String("resource", combiner.PluginCachePath, "archive path of the plugin cache")
	_ = cmd.MarkFlagRequired("output")
	_ = app.v.BindPFlag("no_duplicates", cmd.Flags().Lookup("no-duplicates"))
	_ = app.v.BindPFlag("compress", cmd.Flags().Lookup("compress"))
	_ = app.v.BindPFlag("resource", cmd.Flags().Lookup("resource"))

	return cmd
}

func runMerge(cmd *cobra.Command, app *App, output string, raw bool, jars []string) error {
	ctx := cmd.Context()
	cfg, _, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	logger := slog.Default()

	pc := combiner.NewPluginDatCombiner(
		combiner.NewConcatenator(cfg.Resource),
		combiner.WithStrict(cfg.NoDuplicates),
		combiner.WithLogger(logger),
	)
	router := jar.NewRouter()
	if err := router.Handle(cfg.Resource, pc); err != nil {
		return err
	}
	defer func() {
		if closeErr := router.Close(); closeErr != nil {
			logger.Warn("failed to release combiner", "error", closeErr)
		}
	}()

	stats, err := jar.MergeJars(ctx, router, jars)
	if err != nil {
		return failure(err, "merge plugin caches", cfg.Resource,
			"Run with --verbose for details on this kind of failure")
	}
	logger.Debug("merged jars", "jars", stats.Jars, "routed", stats.Routed, "skipped", stats.Skipped, "strict", pc.Strict())
	if stats.Routed == 0 {
		logger.Warn("no input jar carries a plugin cache", "resource", cfg.Resource)
	}

	if raw {
		if err := writeRawCache(output, pc.Catalog()); err != nil {
			return failure(err, "write plugin cache", output)
		}
		fmt.Fprintf(app.stdout, "%s wrote %s (%d plugins from %d jars)\n",
			SuccessStyle.Render("✓"), output, pc.Catalog().EntryCount(), stats.Jars)
		return nil
	}

	entries, err := router.Finalize(cfg.Compress)
	if err != nil {
		return failure(err, "finalize plugin cache", cfg.Resource)
	}
	if err := jar.WriteFile(output, entries); err != nil {
		return failure(err, "write jar", output)
	}
	for _, e := range entries {
		fmt.Fprintf(app.stdout, "%s wrote %s to %s %s\n",
			SuccessStyle.Render("✓"), KeyStyle.Render(e.Name), output, SubtitleStyle.Render(e.Digest.String()))
	}
	return nil
}

func writeRawCache(path string, c *plugincache.Catalog) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	_, err = plugincache.EncodeTo(f, c)
	return err
}
