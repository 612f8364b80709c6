// SPDX-License-Identifier: MPL-2.0

package plugincache

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is the sentinel error wrapped by FormatError.
	ErrFormat = errors.New("invalid plugin cache format")

	// ErrDuplicatePlugin is the sentinel error wrapped by DuplicatePluginError.
	ErrDuplicatePlugin = errors.New("duplicate plugin")
)

// Reasons reported by FormatError.
const (
	ReasonTruncated     = "truncated cache data"
	ReasonCountRange    = "count out of range"
	ReasonTrailingData  = "trailing data"
	ReasonEntryTooLarge = "entry too large to encode"
)

type (
	// FormatError is returned when cache bytes are malformed or truncated, or when
	// a catalog holds a value that cannot be represented on the wire.
	FormatError struct {
		// Reason is a short, stable description (one of the Reason* constants).
		Reason string
		// Offset is the byte offset at which decoding failed, or -1 for encode errors.
		Offset int
		// Field names the field being read or written (e.g. "entryCount").
		Field string
	}

	// DuplicatePluginError is returned by Fold in strict mode when the incoming
	// catalog contributes a (category, key) pair that is already accumulated.
	DuplicatePluginError struct {
		Category string
		Key      string
	}
)

// Error implements the error interface.
func (e *FormatError) Error() string {
	switch {
	case e.Offset >= 0 && e.Field != "":
		return fmt.Sprintf("%s: %s (reading %s at offset %d)", ErrFormat, e.Reason, e.Field, e.Offset)
	case e.Field != "":
		return fmt.Sprintf("%s: %s (%s)", ErrFormat, e.Reason, e.Field)
	default:
		return fmt.Sprintf("%s: %s", ErrFormat, e.Reason)
	}
}

// Unwrap returns ErrFormat so callers can use errors.Is for programmatic detection.
func (e *FormatError) Unwrap() error { return ErrFormat }

// Error implements the error interface.
func (e *DuplicatePluginError) Error() string {
	return fmt.Sprintf("Log4j2 plugin %s.%s is present in multiple jars", e.Category, e.Key)
}

// Unwrap returns ErrDuplicatePlugin so callers can use errors.Is for programmatic detection.
func (e *DuplicatePluginError) Unwrap() error { return ErrDuplicatePlugin }
