// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the singlejar CLI.
//
// The command tree is built by NewRootCommand and run through fang by Execute,
// which is also the only place the process exits.
package cmd
