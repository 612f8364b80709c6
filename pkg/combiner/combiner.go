// SPDX-License-Identifier: MPL-2.0

package combiner

import (
	"errors"
	"fmt"
	"sync"
)

// PluginCachePath is the archive path under which log4j-core's annotation
// processor stores the plugin descriptor cache.
const PluginCachePath = "META-INF/org/apache/logging/log4j/core/config/plugins/Log4j2Plugins.dat"

// Compression methods understood by combiners, as recorded in zip headers.
const (
	MethodStored   uint16 = 0
	MethodDeflated uint16 = 8
)

var (
	// ErrUnsupportedCompressionMethod is the sentinel error wrapped by
	// UnsupportedCompressionMethodError.
	ErrUnsupportedCompressionMethod = errors.New("unsupported compression method")

	// ErrFinalized is returned when a combiner is used after OutputEntry.
	ErrFinalized = errors.New("combiner already finalized")

	// ErrCorruptEntry is returned when entry bytes disagree with their metadata.
	ErrCorruptEntry = errors.New("corrupt entry")
)

type (
	// Combiner accumulates several source entries into one output entry.
	Combiner interface {
		// Merge folds one source entry into the combiner. raw holds the entry
		// bytes as stored in the source archive (still compressed).
		Merge(meta EntryMetadata, raw []byte) error
		// OutputEntry finalizes the combiner and returns the output entry.
		// It must be called exactly once.
		OutputEntry(compress bool) (*OutputEntry, error)
		// Close releases resources held by the combiner.
		Close() error
	}

	// EntryMetadata describes a source archive entry.
	EntryMetadata interface {
		Name() string
		CompressionMethod() uint16
		CompressedSize() uint64
		UncompressedSize() uint64
		CRC32() uint32
	}

	// UnsupportedCompressionMethodError is returned by Merge for entries that are
	// neither stored nor deflated.
	UnsupportedCompressionMethodError struct {
		Entry  string
		Method uint16
	}

	// MergeError identifies the source entry whose contents could not be merged.
	MergeError struct {
		Entry string
		Err   error
	}

	synchronized struct {
		mu sync.Mutex
		c  Combiner
	}
)

// Error implements the error interface.
func (e *UnsupportedCompressionMethodError) Error() string {
	return fmt.Sprintf("%s: %s %d (neither stored nor deflated)", e.Entry, ErrUnsupportedCompressionMethod, e.Method)
}

// Unwrap returns ErrUnsupportedCompressionMethod so callers can use errors.Is.
func (e *UnsupportedCompressionMethodError) Unwrap() error { return ErrUnsupportedCompressionMethod }

// Error implements the error interface.
func (e *MergeError) Error() string {
	return fmt.Sprintf("merging %s: %v", e.Entry, e.Err)
}

// Unwrap returns the underlying error.
func (e *MergeError) Unwrap() error { return e.Err }

// Synchronized wraps c so that each Merge, OutputEntry and Close call holds a
// mutex for its duration.
func Synchronized(c Combiner) Combiner {
	return &synchronized{c: c}
}

func (s *synchronized) Merge(meta EntryMetadata, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Merge(meta, raw)
}

func (s *synchronized) OutputEntry(compress bool) (*OutputEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.OutputEntry(compress)
}

func (s *synchronized) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Close()
}
