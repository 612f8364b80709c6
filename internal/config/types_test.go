// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"log/slog"
	"testing"
)

func TestLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     LogLevel
		wantValid bool
		want      slog.Level
	}{
		{LogLevelDebug, true, slog.LevelDebug},
		{LogLevelInfo, true, slog.LevelInfo},
		{LogLevelWarn, true, slog.LevelWarn},
		{LogLevelError, true, slog.LevelError},
		{"trace", false, slog.LevelInfo},
		{"", false, slog.LevelInfo},
	}

	for _, tt := range tests {
		err := tt.level.Validate()
		if (err == nil) != tt.wantValid {
			t.Errorf("LogLevel(%q).Validate() error = %v, wantValid %v", tt.level, err, tt.wantValid)
		}
		if err != nil && !errors.Is(err, ErrInvalidLogLevel) {
			t.Errorf("LogLevel(%q).Validate() does not wrap ErrInvalidLogLevel", tt.level)
		}
		if got := tt.level.Level(); got != tt.want {
			t.Errorf("LogLevel(%q).Level() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}

	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	cfg.ColorScheme = "neon"
	cfg.Resource = "  "

	err := cfg.Validate()
	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("Validate() error = %v, want *InvalidConfigError", err)
	}
	if len(invalid.FieldErrors) != 3 {
		t.Errorf("FieldErrors = %v, want 3", invalid.FieldErrors)
	}
	for _, target := range []error{ErrInvalidConfig, ErrInvalidLogLevel, ErrInvalidColorScheme} {
		if !errors.Is(err, target) {
			t.Errorf("errors.Is(err, %v) = false", target)
		}
	}
}
