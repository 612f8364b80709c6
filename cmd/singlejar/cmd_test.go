// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/singlejar/singlejar/internal/issue"
	"github.com/singlejar/singlejar/internal/testutil"
	"github.com/singlejar/singlejar/pkg/combiner"
	"github.com/singlejar/singlejar/pkg/jar"
	"github.com/singlejar/singlejar/pkg/plugincache"
	"github.com/singlejar/singlejar/pkg/types"
)

var (
	consoleEntry = plugincache.PluginEntry{Category: "Core", Key: "Console", ClassName: "x.ConsoleAppender", Name: "Console", Printable: true}
	envEntry     = plugincache.PluginEntry{Category: "Lookup", Key: "env", ClassName: "x.EnvLookup", Name: "env"}
)

func cacheOf(t *testing.T, entries ...plugincache.PluginEntry) []byte {
	t.Helper()
	return testutil.CacheOf(t, entries...)
}

// writeCacheJar writes a jar holding data at the plugin cache path, stored
// raw with the given compression method.
func writeCacheJar(t *testing.T, path string, data []byte, method uint16) {
	t.Helper()
	testutil.WriteRawJar(t, path, combiner.PluginCachePath, data, method)
}

// run executes the CLI with an empty config file so the developer's own
// configuration cannot leak in.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), "singlejar.cue")
	testutil.MustWriteFile(t, cfgFile, nil)

	var stdout, stderr bytes.Buffer
	app := NewApp(&stdout, &stderr)
	root := NewRootCommand(app)
	root.SetArgs(append([]string{"--config", cfgFile, "--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2026-01-02T03:04:05Z"
	if got, want := getVersionString(), "v1.2.3 (commit: abc1234, built: 2026-01-02T03:04:05Z)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}

	Version = "dev"
	if got, want := getVersionString(), "dev (built from source)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode types.ExitCode
		wantID   issue.Id
	}{
		{name: "nil", err: nil, wantCode: types.ExitOK},
		{name: "unsupported", err: &combiner.UnsupportedCompressionMethodError{Method: 12}, wantCode: types.ExitUnsupported, wantID: issue.UnsupportedCompressionId},
		{name: "duplicate", err: &combiner.MergeError{Err: &plugincache.DuplicatePluginError{Category: "Core", Key: "Console"}}, wantCode: types.ExitFailure, wantID: issue.DuplicatePluginId},
		{name: "format", err: &plugincache.FormatError{Reason: plugincache.ReasonTruncated}, wantCode: types.ExitFailure, wantID: issue.MalformedPluginCacheId},
		{name: "corrupt", err: combiner.ErrCorruptEntry, wantCode: types.ExitFailure, wantID: issue.CorruptEntryId},
		{name: "not a jar", err: zip.ErrFormat, wantCode: types.ExitFailure, wantID: issue.JarOpenFailedId},
		{name: "missing", err: os.ErrNotExist, wantCode: types.ExitFailure, wantID: issue.JarOpenFailedId},
		{name: "other", err: errors.New("disk full"), wantCode: types.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, id := classify(tt.err)
			if code != tt.wantCode || id != tt.wantID {
				t.Errorf("classify() = (%d, %d), want (%d, %d)", code, id, tt.wantCode, tt.wantID)
			}
		})
	}
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.jar"), filepath.Join(dir, "b.jar")
	writeCacheJar(t, a, cacheOf(t, consoleEntry), combiner.MethodStored)
	writeCacheJar(t, b, cacheOf(t, envEntry), combiner.MethodStored)
	out := filepath.Join(dir, "out.jar")

	stdout, err := run(t, "merge", "-o", out, a, b)
	if err != nil {
		t.Fatalf("merge error = %v", err)
	}
	if !strings.Contains(stdout, "sha256:") {
		t.Errorf("merge output %q lacks digest", stdout)
	}

	got, err := jar.ReadEntry(out, combiner.PluginCachePath)
	if err != nil {
		t.Fatalf("ReadEntry() error = %v", err)
	}
	if want := cacheOf(t, consoleEntry, envEntry); !bytes.Equal(got, want) {
		t.Errorf("combined cache = %x, want %x", got, want)
	}
}

func TestMergeCommandRaw(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jar")
	writeCacheJar(t, a, cacheOf(t, consoleEntry, envEntry), combiner.MethodStored)
	out := filepath.Join(dir, "Log4j2Plugins.dat")

	if _, err := run(t, "merge", "--raw", "-o", out, a); err != nil {
		t.Fatalf("merge --raw error = %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if want := cacheOf(t, consoleEntry, envEntry); !bytes.Equal(got, want) {
		t.Errorf("raw cache = %x, want %x", got, want)
	}
}

func TestMergeCommandFailures(t *testing.T) {
	other := consoleEntry
	other.ClassName = "y.OtherConsole"

	tests := []struct {
		name     string
		second   []byte
		method   uint16
		flags    []string
		wantCode types.ExitCode
		wantErr  error
	}{
		{
			name:     "duplicate in strict mode",
			second:   cacheOf(t, other),
			flags:    []string{"--no-duplicates"},
			wantCode: types.ExitFailure,
			wantErr:  plugincache.ErrDuplicatePlugin,
		},
		{
			name:     "unsupported compression",
			second:   cacheOf(t, envEntry),
			method:   12,
			wantCode: types.ExitUnsupported,
			wantErr:  combiner.ErrUnsupportedCompressionMethod,
		},
		{
			name:     "malformed cache",
			second:   []byte{0, 0, 0, 1, 0},
			wantCode: types.ExitFailure,
			wantErr:  plugincache.ErrFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			a, b := filepath.Join(dir, "a.jar"), filepath.Join(dir, "b.jar")
			writeCacheJar(t, a, cacheOf(t, consoleEntry), combiner.MethodStored)
			writeCacheJar(t, b, tt.second, tt.method)

			args := append([]string{"merge", "-o", filepath.Join(dir, "out.jar")}, tt.flags...)
			_, err := run(t, append(args, a, b)...)

			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("merge error = %v, want *ExitError", err)
			}
			if exitErr.Code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", exitErr.Code, tt.wantCode)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("merge error = %v, want %v", err, tt.wantErr)
			}
			if _, statErr := os.Stat(filepath.Join(dir, "out.jar")); !errors.Is(statErr, os.ErrNotExist) {
				t.Error("output written despite failure")
			}
		})
	}
}

func TestMergeLenientLaterWins(t *testing.T) {
	other := consoleEntry
	other.ClassName = "y.OtherConsole"

	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.jar"), filepath.Join(dir, "b.jar")
	writeCacheJar(t, a, cacheOf(t, consoleEntry), combiner.MethodStored)
	writeCacheJar(t, b, cacheOf(t, other), combiner.MethodStored)
	out := filepath.Join(dir, "out.dat")

	if _, err := run(t, "merge", "--raw", "-o", out, a, b); err != nil {
		t.Fatalf("merge error = %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if want := cacheOf(t, other); !bytes.Equal(got, want) {
		t.Errorf("combined cache = %x, want later jar's entry %x", got, want)
	}
}

func TestDumpCommand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jar")
	writeCacheJar(t, a, cacheOf(t, consoleEntry, envEntry), combiner.MethodStored)
	dat := filepath.Join(dir, "Log4j2Plugins.dat")
	testutil.MustWriteFile(t, dat, cacheOf(t, envEntry))

	stdout, err := run(t, "dump", a)
	if err != nil {
		t.Fatalf("dump jar error = %v", err)
	}
	for _, want := range []string{"Core", "Console", "x.ConsoleAppender", "printable", "Lookup", "2 categories, 2 plugins"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("dump output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Index(stdout, "Core") > strings.Index(stdout, "Lookup") {
		t.Errorf("dump output not in category order:\n%s", stdout)
	}

	stdout, err = run(t, "dump", dat)
	if err != nil {
		t.Fatalf("dump dat error = %v", err)
	}
	if !strings.Contains(stdout, "1 categories, 1 plugins") {
		t.Errorf("dump .dat output:\n%s", stdout)
	}
}

func TestConfigShow(t *testing.T) {
	stdout, err := run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"no_duplicates", "compress", combiner.PluginCachePath} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config show output missing %q:\n%s", want, stdout)
		}
	}
}

func TestExitCodeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{name: "nil", err: nil, want: types.ExitOK},
		{name: "plain error", err: errors.New("boom"), want: types.ExitFailure},
		{name: "unsupported", err: failure(&combiner.UnsupportedCompressionMethodError{Method: 12}, "merge", "a.jar"), want: types.ExitUnsupported},
		{name: "exit error without failing code", err: &ExitError{Code: types.ExitOK, Err: errors.New("boom")}, want: types.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeOf(tt.err); got != tt.want {
				t.Errorf("exitCodeOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFailureCarriesContext(t *testing.T) {
	t.Parallel()

	err := failure(plugincache.ErrFormat, "decode plugin cache", "a.jar", "Rebuild the jar")
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("failure() = %v, want *issue.ActionableError", err)
	}
	if ae.Operation != "decode plugin cache" || ae.Resource != "a.jar" || ae.Issue != issue.MalformedPluginCacheId {
		t.Errorf("ActionableError = %+v", ae)
	}
	if len(ae.Suggestions) != 1 {
		t.Errorf("Suggestions = %v, want one", ae.Suggestions)
	}
	if failure(nil, "op", "res") != nil {
		t.Error("failure(nil) != nil")
	}
}

func TestRenderHelpVerbose(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	app := NewApp(&stdout, &stderr)
	app.verbose = true
	app.colorScheme = "notty"
	app.renderHelp(failure(plugincache.ErrFormat, "decode plugin cache", "a.jar"))

	out := stderr.String()
	for _, want := range []string{"decode plugin cache failed", "plugin cache could not be read"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderHelp() output missing %q:\n%s", want, out)
		}
	}
}

func TestExplainCommand(t *testing.T) {
	stdout, err := run(t, "explain")
	if err != nil {
		t.Fatalf("explain error = %v", err)
	}
	for _, v := range issue.Values() {
		if !strings.Contains(stdout, v.Title()) {
			t.Errorf("explain output missing %q:\n%s", v.Title(), stdout)
		}
	}

	stdout, err = run(t, "explain", "2")
	if err != nil {
		t.Fatalf("explain 2 error = %v", err)
	}
	if !strings.Contains(stdout, "defined by two jars") {
		t.Errorf("explain 2 output:\n%s", stdout)
	}

	for _, arg := range []string{"x", "999"} {
		if _, err := run(t, "explain", arg); err == nil {
			t.Errorf("explain %s error = nil", arg)
		}
	}
}
