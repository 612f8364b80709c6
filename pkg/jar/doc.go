// SPDX-License-Identifier: MPL-2.0

// Package jar connects combiners to zip archives.
//
// A Router names the archive paths that are combined rather than copied.
// MergeJars visits input jars in order and hands each routed entry, still
// compressed, to its combiner. WriteEntries writes the finalized entries to a
// new jar without recompressing them.
package jar
