// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/singlejar/singlejar/internal/config"
	"github.com/singlejar/singlejar/internal/issue"
	"github.com/singlejar/singlejar/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// App carries the state shared by every command of one invocation.
type App struct {
	stdout io.Writer
	stderr io.Writer
	v      *viper.Viper

	cfgFile     string
	verbose     bool
	colorScheme config.ColorScheme
}

// NewApp returns an App writing to the given streams.
func NewApp(stdout, stderr io.Writer) *App {
	return &App{
		stdout:      stdout,
		stderr:      stderr,
		v:           config.NewViper(),
		colorScheme: config.ColorSchemeAuto,
	}
}

// NewRootCommand builds the command tree for app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "singlejar",
		Short: "Combine the Log4j2 plugin caches of many jars into one",
		Long: TitleStyle.Render("singlejar") + SubtitleStyle.Render(" - Log4j2 plugin cache combiner") + `

Every log4j-core based jar may carry its own plugin cache at
META-INF/org/apache/logging/log4j/core/config/plugins/Log4j2Plugins.dat.
When jars are merged into one, only one such file can survive, so singlejar
folds all of them into a single cache with a canonical layout.

` + SubtitleStyle.Render("Examples:") + `
  singlejar merge -o app.jar lib/*.jar      Combine the caches of all jars
  singlejar merge --no-duplicates -o ...    Fail if two jars define a plugin
  singlejar dump app.jar                    List the plugins in a jar
  singlejar config show                     Show the effective configuration`,
		SilenceUsage: true,
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging and detailed error help")
	root.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default is <user config dir>/singlejar/config.cue)")
	root.PersistentFlags().String("log-level", "", "minimum log level (debug, info, warn, error)")
	_ = app.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newMergeCommand(app))
	root.AddCommand(newDumpCommand(app))
	root.AddCommand(newConfigCommand(app))
	root.AddCommand(newExplainCommand(app))
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the status of the failure,
// if any. It is called by main.main.
func Execute() {
	app := NewApp(os.Stdout, os.Stderr)
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		app.renderHelp(err)
		os.Exit(int(exitCodeOf(err)))
	}
}

// loadConfig resolves the configuration for this invocation and installs the
// logger it asks for.
func (a *App) loadConfig(ctx context.Context) (*config.Config, string, error) {
	cfg, path, err := config.LoadInto(ctx, a.v, config.LoadOptions{ConfigFilePath: a.cfgFile})
	if err != nil {
		return nil, "", &ExitError{Code: types.ExitFailure, Err: err}
	}
	a.colorScheme = cfg.ColorScheme
	slog.SetDefault(a.newLogger(cfg))
	return cfg, path, nil
}

// newLogger returns a slog logger backed by charmbracelet/log writing to stderr.
func (a *App) newLogger(cfg *config.Config) *slog.Logger {
	level := log.Level(cfg.LogLevel.Level())
	if a.verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(a.stderr, log.Options{
		Prefix: "singlejar",
		Level:  level,
	})
	return slog.New(handler)
}

// renderHelp prints the suggestions attached to err and, in verbose mode, the
// error chain and the catalog page of the failure.
func (a *App) renderHelp(err error) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}

	if len(ae.Suggestions) > 0 || a.verbose {
		full := ae.Format(a.verbose)
		if extra, ok := strings.CutPrefix(full, ae.Error()); ok && strings.TrimSpace(extra) != "" {
			fmt.Fprintln(a.stderr, WarningStyle.Render(strings.TrimLeft(extra, "\n")))
		}
	}

	if !a.verbose || ae.Issue == 0 {
		return
	}
	fmt.Fprintln(a.stderr, ErrorStyle.Render(fmt.Sprintf("✗ %s failed (issue %d)", ae.Operation, ae.Issue)))
	page := issue.Get(ae.Issue)
	if page == nil {
		return
	}
	rendered, renderErr := page.Render(string(a.colorScheme))
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", ae.Issue, "error", renderErr)
		return
	}
	fmt.Fprint(a.stderr, rendered)
}
