// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/singlejar/singlejar/internal/issue"
	"github.com/singlejar/singlejar/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "singlejar"
	// ConfigFileName is the file looked up in the user config directory.
	ConfigFileName = "config.cue"
	// LocalConfigFileName is the file looked up in the working directory.
	LocalConfigFileName = "singlejar.cue"
	// EnvPrefix prefixes environment overrides, e.g. SINGLEJAR_NO_DUPLICATES.
	EnvPrefix = "SINGLEJAR"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the singlejar directory under the user config directory.
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// NewViper returns a Viper instance with defaults and environment overrides
// registered. The CLI binds its flags to the same instance before Load reads
// it back through LoadInto.
func NewViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault("no_duplicates", d.NoDuplicates)
	v.SetDefault("compress", d.Compress)
	v.SetDefault("log_level", string(d.LogLevel))
	v.SetDefault("resource", d.Resource)
	v.SetDefault("color_scheme", string(d.ColorScheme))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load builds a Config from defaults, the config file and the environment.
// It also returns the path of the file that was read, or "" when none was.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return LoadInto(ctx, NewViper(), opts)
}

// LoadInto is Load on a caller-supplied Viper instance, typically one with
// command-line flags already bound.
func LoadInto(ctx context.Context, v *viper.Viper, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	path, err := resolveConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Run 'singlejar config show' to see the accepted keys").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables and flags").
			Wrap(err).
			BuildError()
	}
	return &cfg, path, nil
}

func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			// No user config directory (e.g. $HOME unset); fall through to the
			// working directory.
			dir = ""
		}
	}
	if dir != "" {
		if p := filepath.Join(dir, ConfigFileName); fileExists(p) {
			return p, nil
		}
	}
	if p := filepath.Join(opts.WorkDir, LocalConfigFileName); fileExists(p) {
		return p, nil
	}
	return "", nil
}

// loadCUEIntoViper validates the file against #Config and merges it into v.
// Fields are optional, so the document is decoded to a map without requiring
// concrete values for every schema field.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	res, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(*res.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
