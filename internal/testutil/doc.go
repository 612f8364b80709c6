// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include file operations (MustWriteFile, MustClose), plugin
// cache fixtures (CacheOf) and jar fixtures (WriteJar, WriteRawJar).
package testutil
