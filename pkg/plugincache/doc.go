// SPDX-License-Identifier: MPL-2.0

// Package plugincache reads, writes, and merges Log4j2 plugin descriptor caches
// (the Log4j2Plugins.dat resource that log4j-core's annotation processor emits
// into every jar that declares plugins).
//
// The wire layout is fixed by the Log4j2 runtime loader and uses big-endian
// integers throughout:
//
//	categoryCount  u32
//	categoryCount × {
//	    categoryName  UTFString
//	    entryCount    u32
//	    entryCount × {
//	        key, className, name  UTFString
//	        printable, defer      u8 (0 = false)
//	    }
//	}
//
//	UTFString := u16 length, followed by length opaque bytes
//
// # Ordering
//
// Encode always emits categories in ascending name order and entries in ascending
// key order, whatever order they were inserted in. This makes the merged cache
// byte-for-byte reproducible across builds that enumerate input jars differently.
//
// # Duplicates
//
// Two different rules apply and they are intentionally not the same:
//
//   - Inside a single decoded buffer a repeated (category, key) silently keeps the
//     first occurrence. Strict mode is never consulted.
//   - Across buffers, Fold either rejects the collision (strict) or lets the
//     incoming entry replace the accumulated one (lenient).
package plugincache
