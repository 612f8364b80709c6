// SPDX-License-Identifier: MPL-2.0

// Package combiner folds every occurrence of a resource that several input jars
// contribute into one output entry.
//
// The packaging pipeline routes each matching source entry to a single shared
// Combiner by calling Merge once per entry, then calls OutputEntry exactly once
// when all inputs have been visited. PluginDatCombiner is the Combiner for the
// Log4j2 plugin descriptor cache (PluginCachePath).
//
// Collaborators are small interfaces so the pipeline can supply its own:
//   - EntryMetadata describes a source entry (name, compression method, sizes, CRC).
//   - Inflater decompresses deflated entry bytes.
//   - TransientBytes holds decompressed bytes together with their CRC-32.
//   - EntryWriter accumulates output bytes and produces the final OutputEntry.
//
// Combiners are not safe for concurrent use. Pipelines that scan jars in parallel
// must serialize Merge calls themselves, for example with Synchronized.
package combiner
