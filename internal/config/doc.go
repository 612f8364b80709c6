// SPDX-License-Identifier: MPL-2.0

// Package config loads singlejar settings using Viper with CUE as the file
// format.
//
// Settings come, in increasing precedence, from built-in defaults, a CUE file
// validated against the embedded #Config schema (config_schema.cue),
// SINGLEJAR_* environment variables, and command-line flags bound by the CLI.
// The file is read from --config when given, otherwise from
// <user config dir>/singlejar/config.cue, otherwise from ./singlejar.cue.
package config
